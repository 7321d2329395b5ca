package config

import (
	"log"
	"os"

	"gas-delivery-api/models"

	"github.com/glebarez/sqlite"
	"github.com/joho/godotenv"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// JWTSecret used to sign tokens — read from env or fallback
var JWTSecret = []byte(getEnv("JWT_SECRET", "gas_delivery_super_secret_2024"))

// DriverProvisionKey guards the privileged driver-provisioning endpoint.
// Driver accounts are never created through self-service signup.
var DriverProvisionKey = getEnv("DRIVER_PROVISION_KEY", "provision_me_2024")

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// LoadEnv reads a .env file if one is present. Missing files are fine;
// production injects real environment variables.
func LoadEnv() {
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded configuration from .env")
	}
	JWTSecret = []byte(getEnv("JWT_SECRET", "gas_delivery_super_secret_2024"))
	DriverProvisionKey = getEnv("DRIVER_PROVISION_KEY", "provision_me_2024")
}

func InitDB() {
	InitDBWithDSN(getEnv("GAS_DB_PATH", "gas_delivery.db"))
}

// InitDBWithDSN opens the database at the given path (":memory:" in tests),
// migrates all models and seeds reference data.
func InitDBWithDSN(dsn string) {
	var err error
	DB, err = gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	err = DB.AutoMigrate(
		&models.User{},
		&models.Order{},
		&models.OrderStatusHistory{},
		&models.SafetyTip{},
		&models.DriverEarning{},
		&models.LoyaltyPoint{},
	)
	if err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	seedSafetyTips()

	log.Println("Database connected and migrated")
}

// seedSafetyTips inserts the read-only safety content once.
func seedSafetyTips() {
	var count int64
	DB.Model(&models.SafetyTip{}).Count(&count)
	if count > 0 {
		return
	}
	tips := []models.SafetyTip{
		{Title: "Check for leaks", Body: "Apply soapy water to the valve and hose connections. Bubbles mean a leak — close the valve and call your supplier."},
		{Title: "Store upright", Body: "Always keep cylinders upright in a ventilated space, away from direct sunlight and heat sources."},
		{Title: "Use a regulator", Body: "Only connect cylinders through an approved regulator and replace hoses every two years."},
		{Title: "Ventilate before lighting", Body: "If you smell gas, open doors and windows first. Never flip electrical switches in the room."},
		{Title: "Close after use", Body: "Turn the cylinder valve off after every use, not just the burner knobs."},
	}
	DB.Create(&tips)
}
