package main

import (
	"context"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/boutiquemaison/storefront-backend/pkg/config"
	"github.com/boutiquemaison/storefront-backend/pkg/db"
	"github.com/boutiquemaison/storefront-backend/pkg/db/models"
	"github.com/boutiquemaison/storefront-backend/pkg/enums"
	"github.com/boutiquemaison/storefront-backend/pkg/logger"
	"github.com/boutiquemaison/storefront-backend/pkg/security"
)

// Seeds a development database with the demo catalog: a small category tree,
// a handful of products, one promo code and one demo customer. Rerunnable;
// rows are matched on their natural keys and left alone when present.
func main() {
	logg := logger.New(logger.Options{ServiceName: "seed"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	if cfg.App.IsProd() {
		logg.Warn(context.Background(), "refusing to seed a production database")
		os.Exit(1)
	}

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer dbClient.Close()

	ctx := context.Background()
	conn := dbClient.DB()

	if err := seedCatalog(conn); err != nil {
		logg.Error(ctx, "seeding catalog failed", err)
		os.Exit(1)
	}
	if err := seedPromo(conn); err != nil {
		logg.Error(ctx, "seeding promo failed", err)
		os.Exit(1)
	}
	if err := seedDemoCustomer(conn, cfg.Password); err != nil {
		logg.Error(ctx, "seeding demo customer failed", err)
		os.Exit(1)
	}

	logg.Info(ctx, "seed complete")
}

func seedCatalog(conn *gorm.DB) error {
	salon := models.Category{ID: uuid.New(), Name: "Salon", Slug: "salon", Icon: "fa-couch", DisplayOrder: 1, IsActive: true}
	chambre := models.Category{ID: uuid.New(), Name: "Chambre", Slug: "chambre", Icon: "fa-bed", DisplayOrder: 2, IsActive: true}
	roots := []*models.Category{&salon, &chambre}
	for _, c := range roots {
		if err := upsertCategory(conn, c); err != nil {
			return err
		}
	}

	canapes := models.Category{ID: uuid.New(), Name: "Canapés", Slug: "canapes", ParentID: &salon.ID, DisplayOrder: 1, IsActive: true}
	tables := models.Category{ID: uuid.New(), Name: "Tables basses", Slug: "tables-basses", ParentID: &salon.ID, DisplayOrder: 2, IsActive: true}
	lits := models.Category{ID: uuid.New(), Name: "Lits", Slug: "lits", ParentID: &chambre.ID, DisplayOrder: 1, IsActive: true}
	for _, c := range []*models.Category{&canapes, &tables, &lits} {
		if err := upsertCategory(conn, c); err != nil {
			return err
		}
	}

	promo := decimal.RequireFromString("649.00")
	products := []models.Product{
		{
			ID:         uuid.New(),
			Name:       "Canapé trois places en lin",
			Price:      decimal.RequireFromString("899.00"),
			PromoPrice: &promo,
			Stock:      6,
			CategoryID: canapes.ID,
			IsActive:   true,
			IsFeatured: true,
		},
		{
			ID:         uuid.New(),
			Name:       "Table basse en chêne massif",
			Price:      decimal.RequireFromString("249.00"),
			Stock:      14,
			CategoryID: tables.ID,
			IsActive:   true,
			IsNew:      true,
		},
		{
			ID:         uuid.New(),
			Name:       "Lit deux places avec rangement",
			Price:      decimal.RequireFromString("1190.00"),
			Stock:      3,
			CategoryID: lits.ID,
			IsActive:   true,
		},
	}
	for _, p := range products {
		var count int64
		if err := conn.Model(&models.Product{}).Where("name = ?", p.Name).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}
		if err := conn.Create(&p).Error; err != nil {
			return err
		}
	}
	return nil
}

func upsertCategory(conn *gorm.DB, c *models.Category) error {
	err := conn.Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "slug"}}, DoNothing: true}).
		Create(c).Error
	if err != nil {
		return err
	}
	// reload in case the row already existed with a different id
	return conn.Where("slug = ?", c.Slug).First(c).Error
}

func seedPromo(conn *gorm.DB) error {
	now := time.Now().UTC()
	promo := models.PromoCode{
		ID:            uuid.New(),
		Code:          "BIENVENUE10",
		Description:   "10% de réduction sur la première commande",
		Kind:          enums.PromoKindPercentage,
		Value:         decimal.RequireFromString("10.00"),
		MinimumAmount: decimal.RequireFromString("50.00"),
		StartsAt:      now.AddDate(0, 0, -1),
		EndsAt:        now.AddDate(0, 6, 0),
		IsActive:      true,
	}
	return conn.Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "code"}}, DoNothing: true}).
		Create(&promo).Error
}

func seedDemoCustomer(conn *gorm.DB, cfg config.PasswordConfig) error {
	hash, err := security.HashPassword("demo-boutique", cfg)
	if err != nil {
		return err
	}
	user := models.User{
		ID:           uuid.New(),
		Email:        "demo@boutiquemaison.tn",
		PasswordHash: hash,
		FirstName:    "Amira",
		LastName:     "Ben Salah",
	}
	return conn.Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "email"}}, DoNothing: true}).
		Create(&user).Error
}
