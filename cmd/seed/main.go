package main

import (
	"fmt"
	"log"

	"github.com/openbasket/openbasket-backend/config"
	"github.com/openbasket/openbasket-backend/internal/app/model"
	"github.com/openbasket/openbasket-backend/internal/db"
	"github.com/shopspring/decimal"
)

// Seeds a handful of sellers and products for local development.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	gdb := db.GetDB()

	var count int64
	if err := gdb.Model(&model.Seller{}).Count(&count).Error; err != nil {
		log.Fatal("Failed to inspect sellers table:", err)
	}
	if count > 0 {
		fmt.Println("Sellers already seeded, nothing to do.")
		return
	}

	sellers := []model.Seller{
		{Name: "Harbor Goods", Email: "hello@harborgoods.test", Description: "Coastal home goods"},
		{Name: "Stitch & Thread", Email: "shop@stitchthread.test", Description: "Hand-made apparel"},
		{Name: "Pixel Supply", Email: "sales@pixelsupply.test", Description: "Desk and studio gear"},
	}
	if err := gdb.Create(&sellers).Error; err != nil {
		log.Fatal("Failed to seed sellers:", err)
	}

	products := []model.Product{
		{
			SellerID:    sellers[0].ID,
			Name:        "Canvas Tote",
			Description: "Heavy canvas tote bag",
			Price:       decimal.RequireFromString("20.00"),
			Colors:      "natural,navy",
			Sizes:       "one-size",
			IsActive:    true,
			Status:      model.ProductStatusApproved,
		},
		{
			SellerID:    sellers[0].ID,
			Name:        "Rope Doormat",
			Description: "Braided rope doormat",
			Price:       decimal.RequireFromString("15.00"),
			Colors:      "natural",
			Sizes:       "60x40,90x60",
			IsActive:    true,
			Status:      model.ProductStatusApproved,
		},
		{
			SellerID:    sellers[1].ID,
			Name:        "Linen Shirt",
			Description: "Relaxed-fit linen shirt",
			Price:       decimal.RequireFromString("50.00"),
			Colors:      "white,sage,charcoal",
			Sizes:       "S,M,L,XL",
			IsActive:    true,
			Status:      model.ProductStatusApproved,
		},
		{
			SellerID:    sellers[2].ID,
			Name:        "Monitor Stand",
			Description: "Walnut monitor stand",
			Price:       decimal.RequireFromString("65.00"),
			Colors:      "walnut,oak",
			Sizes:       "one-size",
			IsActive:    true,
			Status:      model.ProductStatusPending, // awaiting review, not yet purchasable
		},
	}
	if err := gdb.Create(&products).Error; err != nil {
		log.Fatal("Failed to seed products:", err)
	}

	fmt.Printf("Seeded %d sellers and %d products.\n", len(sellers), len(products))
}
