package main

import (
	"github.com/maplemart/storefront/config"
	"github.com/maplemart/storefront/models"
	"github.com/maplemart/storefront/routes"
	"github.com/maplemart/storefront/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	db := config.InitDatabase(
		&models.Customer{},
		&models.Product{},
		&models.Promotion{},
		&models.Voucher{},
		&models.Order{},
		&models.OrderItem{},
		&models.UserPromotion{},
		&models.CheckInHistory{},
		&models.RewardHistory{},
		&models.PageView{},
	)

	r := routes.SetupRouter(db)

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
