package migrations

import "gorm.io/gorm"

// Migration002MessageIndexes backs the inbox and agent tools, which all page
// newest first.
func Migration002MessageIndexes() Migration {
	return Migration{
		ID:        "002_message_indexes",
		Name:      "Add message inbox indexes",
		DependsOn: []string{"001_listing_indexes"},
		Up: func(db *gorm.DB) error {
			stmts := []string{
				`CREATE INDEX IF NOT EXISTS idx_messages_recipient_created ON messages (recipient_user_id, created_at DESC)`,
				`CREATE INDEX IF NOT EXISTS idx_messages_property_created ON messages (property_id, created_at DESC)`,
				`CREATE INDEX IF NOT EXISTS idx_messages_sender_created ON messages (sender_email, created_at DESC)`,
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
