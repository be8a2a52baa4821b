package repository

import (
	catalogRepo "slotbook/database/repository/catalog"
	schedulerRepo "slotbook/database/repository/scheduler"
)

// Re-export the BookingRepository interface and constructors.
type BookingRepository = schedulerRepo.BookingRepository

var (
	NewMongoSchedulerRepo  = schedulerRepo.NewMongoSchedulerRepo
	NewMemorySchedulerRepo = schedulerRepo.NewMemorySchedulerRepo
)

// Re-export the CatalogRepository interface and constructors.
type CatalogRepository = catalogRepo.CatalogRepository

var (
	NewMongoCatalogRepo  = catalogRepo.NewMongoCatalogRepo
	NewMemoryCatalogRepo = catalogRepo.NewMemoryCatalogRepo
	DefaultServices      = catalogRepo.DefaultServices
)
