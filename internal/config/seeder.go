package config

import (
	"log"

	"bibliocirc/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// Seeder handles database seeding
type Seeder struct {
	db *gorm.DB
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db}
}

// Run executes all seeders
func (s *Seeder) Run() error {
	log.Println("🌱 Running database seeders...")

	if err := s.seedStaffPatron(); err != nil {
		log.Printf("⚠️ Staff seeder skipped: %v", err)
	}
	if err := s.seedDemoCatalog(); err != nil {
		log.Printf("⚠️ Catalog seeder skipped: %v", err)
	}

	log.Println("✅ Database seeding completed")
	return nil
}

// seedStaffPatron seeds a default staff account.
// This is for development/testing only.
func (s *Seeder) seedStaffPatron() error {
	var count int64
	s.db.Model(&models.Patron{}).Where("role = ?", "STAFF").Count(&count)
	if count > 0 {
		return nil // Staff already exists
	}

	staff := &models.Patron{
		CardNo:   "STAFF001",
		FullName: "Front Desk",
		Email:    "frontdesk@example.org",
		Role:     "STAFF",
		IsActive: true,
	}
	if err := s.db.Create(staff).Error; err != nil {
		return err
	}

	log.Printf("✅ Staff patron created: %s", staff.CardNo)
	return nil
}

// seedDemoCatalog seeds a small demo catalog when the documents table
// is empty, so a fresh dev database has something to circulate.
func (s *Seeder) seedDemoCatalog() error {
	var count int64
	s.db.Model(&models.Document{}).Count(&count)
	if count > 0 {
		return nil
	}

	docs := []struct {
		doc    models.Document
		copies int
	}{
		{models.Document{Title: "The Go Programming Language", Author: "Donovan, Kernighan", DocType: "BOOK", Category: "Programming", Year: 2015}, 3},
		{models.Document{Title: "Designing Data-Intensive Applications", Author: "Martin Kleppmann", DocType: "BOOK", Category: "Databases", Year: 2017}, 2},
		{models.Document{Title: "National Geographic", DocType: "MAGAZINE", Category: "Science", Year: 2024}, 1},
	}

	for _, d := range docs {
		doc := d.doc
		if err := s.db.Create(&doc).Error; err != nil {
			return err
		}
		for i := 0; i < d.copies; i++ {
			item := models.Item{
				DocumentID: doc.ID,
				Location:   "MAIN",
				Status:     models.ItemAvailable,
			}
			if err := s.db.Create(&item).Error; err != nil {
				return err
			}
		}
		updates := map[string]interface{}{
			"total_items":     d.copies,
			"available_items": d.copies,
		}
		if err := s.db.Model(&models.Document{}).Where("id = ?", doc.ID).Updates(updates).Error; err != nil {
			return err
		}
	}

	log.Printf("✅ Demo catalog seeded: %d documents", len(docs))
	return nil
}
