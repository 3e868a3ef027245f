package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strings"
	"time"

	"tourism-backend/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// SeedDatabase ensures the well-known roles exist and that there is at
// least one admin account to bootstrap moderation.
func SeedDatabase() {
	desiredRoles := []models.Role{
		{Name: models.RoleAdmin, Description: "Platform administrator with moderation access"},
		{Name: models.RoleTourGuide, Description: "Approved tour guide accepting bookings"},
		{Name: models.RoleUser, Description: "Registered traveller"},
	}

	for i := range desiredRoles {
		role := desiredRoles[i]
		var existing models.Role
		err := DB.Where("name = ?", role.Name).First(&existing).Error
		if err == nil && existing.ID != 0 {
			continue
		}
		if err := DB.Create(&role).Error; err != nil {
			log.Printf("warning: failed to create role %s: %v", role.Name, err)
		}
	}

	var adminCount int64
	DB.Model(&models.UserRole{}).
		Joins("JOIN roles ON roles.id = user_roles.role_id").
		Where("roles.name = ?", models.RoleAdmin).
		Count(&adminCount)
	if adminCount > 0 {
		log.Println("Admin account already seeded")
		return
	}

	email := envOrDefault("ADMIN_EMAIL", "admin@tourism.local")
	password := envOrDefault("ADMIN_PASSWORD", "admin123")
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("warning: failed to hash default admin password: %v", err)
		return
	}

	admin := models.User{
		FirstName: "Admin",
		LastName:  "User",
		Email:     email,
		Password:  string(hash),
	}
	if err := DB.Where("email = ?", email).FirstOrCreate(&admin, models.User{Email: email}).Error; err != nil {
		log.Printf("warning: failed to create default admin: %v", err)
		return
	}
	if admin.Password == "" {
		DB.Model(&admin).Updates(models.User{FirstName: "Admin", LastName: "User", Password: string(hash)})
	}

	var adminRole models.Role
	if err := DB.Where("name = ?", models.RoleAdmin).First(&adminRole).Error; err != nil {
		log.Printf("warning: admin role missing after seeding: %v", err)
		return
	}
	if err := DB.Create(&models.UserRole{UserID: admin.ID, RoleID: adminRole.ID}).Error; err != nil {
		log.Printf("warning: failed to assign admin role: %v", err)
		return
	}
	log.Println("Default admin seeded")
}

func envOrDefault(key, def string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	return value
}

func mysqlDSNFromURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}

	user := u.User.Username()
	pass, _ := u.User.Password()
	host := u.Hostname()
	port := u.Port()
	if port == "" {
		port = "3306"
	}

	dbName := strings.TrimPrefix(u.Path, "/")
	if dbName == "" {
		return "", fmt.Errorf("mysql url missing database name")
	}

	q := u.Query()
	if q.Get("charset") == "" {
		q.Set("charset", "utf8mb4")
	}
	if q.Get("parseTime") == "" {
		q.Set("parseTime", "True")
	}
	if q.Get("loc") == "" {
		q.Set("loc", "Local")
	}

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?%s", user, pass, host, port, dbName, q.Encode()), nil
}

func resolveMySQLDSN() (string, error) {
	raw := strings.TrimSpace(os.Getenv("MYSQL_URL"))
	if raw == "" {
		raw = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	}

	if raw != "" {
		if strings.HasPrefix(raw, "mysql://") {
			return mysqlDSNFromURL(raw)
		}
		return raw, nil
	}

	user := envOrDefault("DB_USER", "root")
	pass := envOrDefault("DB_PASS", "")
	host := envOrDefault("DB_HOST", "127.0.0.1")
	port := envOrDefault("DB_PORT", "3306")
	dbName := envOrDefault("DB_NAME", "tourism_db")

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		user, pass, host, port, dbName,
	), nil
}

func ConnectDatabase() error {
	dsn, err := resolveMySQLDSN()
	if err != nil {
		return err
	}

	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold: time.Second,
			LogLevel:      logger.Warn,
			Colorful:      true,
		},
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{Logger: newLogger})
	if err != nil {
		return err
	}

	DB = db

	// parent tables before children
	if err := DB.AutoMigrate(
		&models.User{},
		&models.Role{},
		&models.UserRole{},
		&models.TourGuide{},
		&models.TourGuideApplication{},
		&models.Booking{},
	); err != nil {
		return err
	}

	SeedDatabase()
	return nil
}
