package editor

import "github.com/paularlott/neollm/internal/botconfig"

// AddColumn appends {"Column {n+1}", ""} to the selected list.
func (s *Store) AddColumn(list botconfig.ColumnList) (botconfig.Column, bool) {
	var column botconfig.Column
	ok := s.update(func(next *botconfig.BotConfig) bool {
		if !list.Valid() {
			return false
		}
		columns := next.Content.Columns(list)
		column = botconfig.DefaultColumn(len(columns))
		next.Content.SetColumns(list, appendCopy(columns, column))
		return true
	})
	return column, ok
}

// RemoveColumn removes the column at index unless it is the last one left.
func (s *Store) RemoveColumn(list botconfig.ColumnList, index int) bool {
	return s.update(func(next *botconfig.BotConfig) bool {
		columns := next.Content.Columns(list)
		if len(columns) <= 1 || index < 0 || index >= len(columns) {
			return false
		}
		next.Content.SetColumns(list, removeAt(columns, index))
		return true
	})
}

// UpdateColumnTitle sets the title of the column at index.
func (s *Store) UpdateColumnTitle(list botconfig.ColumnList, index int, title string) bool {
	return s.updateColumn(list, index, func(c *botconfig.Column) { c.Title = title })
}

// UpdateColumnValue sets the value of the column at index.
func (s *Store) UpdateColumnValue(list botconfig.ColumnList, index int, value string) bool {
	return s.updateColumn(list, index, func(c *botconfig.Column) { c.Value = value })
}

func (s *Store) updateColumn(list botconfig.ColumnList, index int, fn func(*botconfig.Column)) bool {
	return s.update(func(next *botconfig.BotConfig) bool {
		columns := next.Content.Columns(list)
		if index < 0 || index >= len(columns) {
			return false
		}
		column := columns[index]
		fn(&column)
		next.Content.SetColumns(list, replaceAt(columns, index, column))
		return true
	})
}
