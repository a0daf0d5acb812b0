package checks

import (
	"testing"

	"furniture-store/core/database"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

type widgetRecord struct {
	ID    uint   `gorm:"column:id;primaryKey"`
	Label string `gorm:"column:label;type:varchar(64)"`
	Count int    `gorm:"column:count;type:int"`
	Note  string
}

func (widgetRecord) TableName() string { return "widgets" }

type untabled struct {
	ID uint `gorm:"column:id"`
}

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})
	require.NoError(t, err)
	return gormDB, mock
}

func columns() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"Field", "Type", "Null", "Key", "Default", "Extra"})
}

func TestCheckServerIntegrity_NilDB(t *testing.T) {
	report, err := CheckServerIntegrity(nil, widgetRecord{})
	assert.Error(t, err)
	assert.Nil(t, report)
}

func TestCheckServerIntegrity_ModelWithoutTableName(t *testing.T) {
	db, _ := setupMockDB(t)
	_, err := CheckServerIntegrity(db, untabled{})
	assert.ErrorContains(t, err, "does not implement TableName")
}

func TestCheckServerIntegrity_Matched(t *testing.T) {
	db, mock := setupMockDB(t)
	mock.ExpectQuery("SHOW COLUMNS FROM `widgets`").WillReturnRows(columns().
		AddRow("id", "int(10) unsigned", "NO", "PRI", nil, "auto_increment").
		AddRow("label", "varchar(64)", "YES", "", nil, "").
		AddRow("count", "int(11)", "YES", "", nil, ""))

	report, err := CheckServerIntegrity(db, &widgetRecord{})
	require.NoError(t, err)
	assert.True(t, report.Matched)
	assert.Equal(t, "mysql", report.Driver)
	assert.Equal(t, "ok", report.Tables["widgets"].Status)
}

func TestCheckServerIntegrity_MissingAndMismatch(t *testing.T) {
	db, mock := setupMockDB(t)
	mock.ExpectQuery("SHOW COLUMNS FROM `widgets`").WillReturnRows(columns().
		AddRow("id", "int(11)", "NO", "PRI", nil, "").
		AddRow("label", "int(11)", "YES", "", nil, ""))

	report, err := CheckServerIntegrity(db, widgetRecord{})
	require.NoError(t, err)
	assert.False(t, report.Matched)

	tbl := report.Tables["widgets"]
	assert.Equal(t, "error", tbl.Status)
	assert.Equal(t, []string{"count"}, tbl.MissingColumns)
	assert.Equal(t, []string{"label: expected varchar(64), got int(11)"}, tbl.TypeMismatches)
}

func TestCheckServerIntegrity_InspectFailure(t *testing.T) {
	db, mock := setupMockDB(t)
	mock.ExpectQuery("SHOW COLUMNS FROM `widgets`").WillReturnError(assert.AnError)

	report, err := CheckServerIntegrity(db, widgetRecord{})
	require.NoError(t, err)
	assert.False(t, report.Matched)
	assert.Len(t, report.Errors, 1)
}

func TestCheckServerIntegrity_SQLite(t *testing.T) {
	db, err := database.Connect(database.Config{Driver: database.DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&widgetRecord{}))

	report, err := CheckServerIntegrity(db, widgetRecord{})
	require.NoError(t, err)
	assert.True(t, report.Matched, "%+v", report.Tables)
}

func TestTagValue(t *testing.T) {
	assert.Equal(t, "item_id", tagValue("primaryKey;column:item_id;type:varchar(36)", "column"))
	assert.Equal(t, "varchar(36)", tagValue("column:item_id;type:varchar(36)", "type"))
	assert.Equal(t, "", tagValue("column:id", "type"))
}
