package migrations

import "gorm.io/gorm"

// Migration001ListingIndexes covers the public browse query
// (waiting_status = reviewed AND status = active ORDER BY created_at DESC)
// and the owner=me / agent filters.
func Migration001ListingIndexes() Migration {
	return Migration{
		ID:   "001_listing_indexes",
		Name: "Add listing browse and ownership indexes",
		Up: func(db *gorm.DB) error {
			stmts := []string{
				`CREATE INDEX IF NOT EXISTS idx_properties_public_feed ON properties (waiting_status, status, created_at DESC)`,
				`CREATE INDEX IF NOT EXISTS idx_properties_owner_created ON properties (user_id, created_at DESC)`,
				`CREATE INDEX IF NOT EXISTS idx_properties_agent_created ON properties (agent_id, created_at DESC)`,
			}
			for _, s := range stmts {
				if err := db.Exec(s).Error; err != nil {
					return err
				}
			}
			return nil
		},
	}
}
