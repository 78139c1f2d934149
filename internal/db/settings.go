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

package db

import (
	"context"
	"database/sql"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"
)

// GetSetting returns the stored value for key and whether it exists.
func (db *DB) GetSetting(ctx context.Context, key string) (string, bool, error) {
	row, err := db.queryRow(ctx, sq.Select("value").From("settings").Where(sq.Eq{"key": key}))
	if err != nil {
		return "", false, err
	}

	var value string
	err = row.Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (db *DB) SetSetting(ctx context.Context, key string, value string) error {
	_, err := db.exec(ctx, sq.Replace("settings").
		Columns("key", "value", "updated_at").
		Values(key, value, time.Now().Unix()),
	)
	return err
}

func (db *DB) DeleteSetting(ctx context.Context, key string) error {
	_, err := db.exec(ctx, sq.Delete("settings").Where(sq.Eq{"key": key}))
	return err
}
