package checks

import (
	"fmt"
	"reflect"
	"strings"

	"furniture-store/core/database"

	"gorm.io/gorm"
)

// ServerReport is the result of comparing the database schema with the persisted models.
type ServerReport struct {
	Driver  string                 `json:"driver"`
	Matched bool                   `json:"matched"`
	Tables  map[string]TableReport `json:"tables"`
	Errors  []string               `json:"errors"`
}

type TableReport struct {
	MissingColumns []string `json:"missing_columns"`
	TypeMismatches []string `json:"type_mismatches"`
	Status         string   `json:"status"` // "ok", "error"
}

type tabler interface {
	TableName() string
}

// CheckServerIntegrity compares each model's gorm column and type tags with the live
// table. Models must implement TableName. Type checks are substring matches so
// "int" accepts mysql's "int(11)".
func CheckServerIntegrity(db *gorm.DB, models ...any) (*ServerReport, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}

	report := &ServerReport{
		Driver:  db.Dialector.Name(),
		Matched: true,
		Tables:  make(map[string]TableReport),
		Errors:  []string{},
	}

	for _, model := range models {
		t := reflect.TypeOf(model)
		if t.Kind() == reflect.Pointer {
			t = t.Elem()
		}
		tb, ok := reflect.New(t).Interface().(tabler)
		if !ok {
			return nil, fmt.Errorf("model %s does not implement TableName", t.Name())
		}
		table := tb.TableName()

		actual, err := database.GetTableColumns(db, table)
		if err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("failed to inspect table %s: %v", table, err))
			report.Matched = false
			continue
		}
		report.Tables[table] = compareTable(t, actual)
		if report.Tables[table].Status != "ok" {
			report.Matched = false
		}
	}
	return report, nil
}

func compareTable(t reflect.Type, actual []database.ColumnInfo) TableReport {
	tr := TableReport{MissingColumns: []string{}, TypeMismatches: []string{}, Status: "ok"}

	columns := make(map[string]database.ColumnInfo, len(actual))
	for _, col := range actual {
		columns[col.Field] = col
	}

	for i := 0; i < t.NumField(); i++ {
		tag := t.Field(i).Tag.Get("gorm")
		name := tagValue(tag, "column")
		if name == "" {
			continue
		}
		col, exists := columns[name]
		if !exists {
			tr.MissingColumns = append(tr.MissingColumns, name)
			tr.Status = "error"
			continue
		}
		want := strings.ToLower(tagValue(tag, "type"))
		if want != "" && !strings.Contains(col.Type, want) {
			tr.TypeMismatches = append(tr.TypeMismatches, fmt.Sprintf("%s: expected %s, got %s", name, want, col.Type))
			tr.Status = "error"
		}
	}
	return tr
}

func tagValue(tag, key string) string {
	for _, part := range strings.Split(tag, ";") {
		if v, ok := strings.CutPrefix(part, key+":"); ok {
			return v
		}
	}
	return ""
}
