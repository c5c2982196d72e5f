package service_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/travel-desk/agency-api/internal/database"
	"github.com/travel-desk/agency-api/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func openDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open(sqlite.Open(":memory:"))
	require.NoError(t, err)
	return db
}

type fixture struct {
	customer    models.Account
	destination models.Destination
	pkg         models.Package
}

func seed(t *testing.T, db *gorm.DB, destName string, price float64) fixture {
	t.Helper()
	f := fixture{
		customer:    models.Account{Username: "cust-" + destName, PasswordHash: "x", Role: models.RoleCustomer},
		destination: models.Destination{Name: destName, Location: "Loc", IsActive: true},
	}
	require.NoError(t, db.Create(&f.customer).Error)
	require.NoError(t, db.Create(&f.destination).Error)
	f.pkg = models.Package{Name: destName + " Trip", Price: price, MaxCapacity: 5, DestinationID: f.destination.ID}
	require.NoError(t, db.Create(&f.pkg).Error)
	return f
}
