/*
   BoldBriefing - autonomous news briefing agent
   Copyright (C) 2025  Unbewohnte (Kasyanov Nikolay Alexeevich)

   This program is free software: you can redistribute it and/or modify
   it under the terms of the GNU General Public License as published by
   the Free Software Foundation, either version 3 of the License, or
   (at your option) any later version.

   This program is distributed in the hope that it will be useful,
   but WITHOUT ANY WARRANTY; without even the implied warranty of
   MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
   GNU General Public License for more details.

   You should have received a copy of the GNU General Public License
   along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/

package article

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownRegion   = errors.New("unknown region")
	ErrUnknownCategory = errors.New("unknown category")
)

type Region string

const (
	Kenya      Region = "Kenya"
	EastAfrica Region = "East Africa"
	Africa     Region = "Africa"
	Global     Region = "Global"
)

type Category string

const (
	Politics      Category = "Politics"
	Business      Category = "Business"
	AITech        Category = "AI & Tech"
	StocksCrypto  Category = "Stocks & Crypto"
	WarsConflict  Category = "Wars & Conflict"
	Health        Category = "Health"
	ClimateChange Category = "Climate Change"
	Entertainment Category = "Entertainment"
)

// Regions returns every region in display order.
func Regions() []Region {
	return []Region{Kenya, EastAfrica, Africa, Global}
}

// Categories returns every category in canonical order.
func Categories() []Category {
	return []Category{
		Politics,
		Business,
		AITech,
		StocksCrypto,
		WarsConflict,
		Health,
		ClimateChange,
		Entertainment,
	}
}

// Slug turns a display name into a lowercase dash separated token.
// "Stocks & Crypto" becomes "stocks-crypto".
func Slug(name string) string {
	fields := strings.FieldsFunc(strings.ToLower(name), func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
	})
	return strings.Join(fields, "-")
}

func (r Region) Slug() string   { return Slug(string(r)) }
func (c Category) Slug() string { return Slug(string(c)) }

func (r Region) Valid() bool {
	for _, known := range Regions() {
		if r == known {
			return true
		}
	}
	return false
}

func (c Category) Valid() bool {
	for _, known := range Categories() {
		if c == known {
			return true
		}
	}
	return false
}

// ParseRegion accepts a display name or a slug, case insensitively.
func ParseRegion(s string) (Region, error) {
	want := Slug(s)
	for _, r := range Regions() {
		if r.Slug() == want {
			return r, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownRegion, s)
}

// ParseCategory accepts a display name or a slug, case insensitively.
func ParseCategory(s string) (Category, error) {
	want := Slug(s)
	for _, c := range Categories() {
		if c.Slug() == want {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCategory, s)
}
