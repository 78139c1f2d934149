package catalog

import "Unbewohnte/BoldBriefing/internal/article"

var defaultTable = map[article.Region]map[article.Category]QueryConfig{
	article.Kenya: {
		article.Politics:      {Query: "Kenya politics OR #KenyaPolitics OR Ruto OR Raila lang:en place_country:KE", Weight: 1.3},
		article.Business:      {Query: "Kenya business OR Nairobi Stock Exchange OR #KenyaEconomy lang:en place_country:KE", Weight: 1.2},
		article.AITech:        {Query: "Kenya AI OR #KenyaTech OR Nairobi innovation lang:en place_country:KE", Weight: 1.1},
		article.StocksCrypto:  {Query: "Kenya crypto OR Nairobi stocks OR #KenyaCrypto lang:en place_country:KE", Weight: 1.0},
		article.Health:        {Query: "Kenya health OR #KenyaHealth OR Ministry of Health lang:en place_country:KE", Weight: 1.2},
		article.ClimateChange: {Query: "Kenya climate OR drought OR floods OR #ClimateKenya lang:en place_country:KE", Weight: 1.3},
		article.Entertainment: {Query: "Kenya entertainment OR #KenyaMusic OR #KenyaFilm OR celebrity lang:en place_country:KE", Weight: 0.8},
		article.WarsConflict:  {Query: "Kenya border security OR KDF OR Al-Shabaab lang:en place_country:KE", Weight: 1.3},
	},
	article.EastAfrica: {
		article.Politics:      {Query: "East Africa politics OR EAC OR Uganda OR Tanzania OR Rwanda lang:en", Weight: 1.3},
		article.Business:      {Query: "East Africa economy OR #EACBusiness OR regional trade lang:en", Weight: 1.2},
		article.AITech:        {Query: "East Africa AI OR #TechAfrica OR innovation lang:en", Weight: 1.1},
		article.StocksCrypto:  {Query: "East Africa crypto OR #CryptoAfrica OR stock market lang:en", Weight: 1.0},
		article.Health:        {Query: "East Africa health OR #HealthAfrica OR WHO Africa lang:en", Weight: 1.2},
		article.ClimateChange: {Query: "East Africa climate OR drought OR floods OR #ClimateAfrica lang:en", Weight: 1.3},
		article.Entertainment: {Query: "East Africa entertainment OR #MusicAfrica OR #FilmAfrica lang:en", Weight: 0.8},
		article.WarsConflict:  {Query: "East Africa conflict OR DRC conflict OR Somalia lang:en", Weight: 1.3},
	},
	article.Africa: {
		article.Politics:      {Query: "Africa politics OR AU OR African Union OR #AfricaPolitics lang:en", Weight: 1.3},
		article.Business:      {Query: "Africa business OR #AfricaEconomy OR AfCFTA lang:en", Weight: 1.2},
		article.AITech:        {Query: "Africa AI OR #AfricaTech OR innovation lang:en", Weight: 1.1},
		article.StocksCrypto:  {Query: "Africa crypto OR #CryptoAfrica OR Johannesburg Stock Exchange lang:en", Weight: 1.0},
		article.Health:        {Query: "Africa health OR #HealthAfrica OR WHO Africa lang:en", Weight: 1.2},
		article.ClimateChange: {Query: "Africa climate OR #ClimateAfrica OR COP lang:en", Weight: 1.3},
		article.Entertainment: {Query: "Africa entertainment OR #Afrobeats OR #AfricanFilm lang:en", Weight: 0.8},
		article.WarsConflict:  {Query: "Africa conflict OR Sudan war OR Sahel security lang:en", Weight: 1.3},
	},
	article.Global: {
		article.Politics:      {Query: "global politics OR geopolitics OR #WorldPolitics lang:en", Weight: 1.4},
		article.Business:      {Query: "global economy OR #BusinessNews OR IMF OR World Bank lang:en", Weight: 1.3},
		article.AITech:        {Query: "AI OR #ArtificialIntelligence OR #TechNews lang:en", Weight: 1.2},
		article.StocksCrypto:  {Query: "crypto OR Bitcoin OR Ethereum OR #StockMarket lang:en", Weight: 1.1},
		article.Health:        {Query: "global health OR WHO OR #HealthNews lang:en", Weight: 1.3},
		article.ClimateChange: {Query: "climate change OR #ClimateCrisis OR COP lang:en", Weight: 1.4},
		article.Entertainment: {Query: "global entertainment OR #Hollywood OR #MusicNews OR celebrity lang:en", Weight: 0.9},
		article.WarsConflict:  {Query: "Ukraine war OR Gaza conflict OR global security lang:en", Weight: 1.4},
	},
}
