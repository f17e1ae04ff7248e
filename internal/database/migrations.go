package database

import (
	"context"
	"fmt"
)

var migrations = []string{
	`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`,

	`CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		email VARCHAR(255) UNIQUE NOT NULL,
		name VARCHAR(255) NOT NULL,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		global_role VARCHAR(50) NOT NULL DEFAULT 'user',
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS businesses (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		owner_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		name VARCHAR(255) NOT NULL,
		workplace_latitude DOUBLE PRECISION,
		workplace_longitude DOUBLE PRECISION,
		clock_in_radius_meters INTEGER NOT NULL DEFAULT 100,
		require_location_for_clock_in BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS business_staff (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		business_id UUID NOT NULL REFERENCES businesses(id) ON DELETE CASCADE,
		user_id UUID REFERENCES users(id) ON DELETE SET NULL,
		name VARCHAR(255) NOT NULL,
		job_title VARCHAR(255) NOT NULL DEFAULT '',
		status VARCHAR(20) NOT NULL DEFAULT 'ACTIVE',
		confirmed BOOLEAN NOT NULL DEFAULT FALSE,
		hire_date DATE,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS staff_invitations (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		staff_id UUID NOT NULL UNIQUE REFERENCES business_staff(id) ON DELETE CASCADE,
		business_id UUID NOT NULL REFERENCES businesses(id) ON DELETE CASCADE,
		worker_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		status VARCHAR(20) NOT NULL DEFAULT 'PENDING',
		message TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		responded_at TIMESTAMP WITH TIME ZONE
	)`,

	`CREATE TABLE IF NOT EXISTS shifts (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		business_id UUID NOT NULL REFERENCES businesses(id) ON DELETE CASCADE,
		staff_id UUID NOT NULL REFERENCES business_staff(id) ON DELETE CASCADE,
		starts_at TIMESTAMP WITH TIME ZONE NOT NULL,
		ends_at TIMESTAMP WITH TIME ZONE NOT NULL,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS hours_cards (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		staff_id UUID NOT NULL REFERENCES business_staff(id) ON DELETE CASCADE,
		shift_id UUID REFERENCES shifts(id) ON DELETE SET NULL,
		date DATE NOT NULL,
		clock_in_at TIMESTAMP WITH TIME ZONE NOT NULL,
		clock_out_at TIMESTAMP WITH TIME ZONE,
		utc_offset_minutes INTEGER NOT NULL DEFAULT 0,
		break_start_at TIMESTAMP WITH TIME ZONE,
		break_end_at TIMESTAMP WITH TIME ZONE,
		clock_in_latitude DOUBLE PRECISION,
		clock_in_longitude DOUBLE PRECISION,
		clock_in_distance_meters DOUBLE PRECISION,
		notes TEXT NOT NULL DEFAULT '',
		worker_signature TEXT,
		worker_signed_at TIMESTAMP WITH TIME ZONE,
		status VARCHAR(20) NOT NULL DEFAULT 'PENDING',
		approved_by UUID REFERENCES users(id) ON DELETE SET NULL,
		approved_at TIMESTAMP WITH TIME ZONE,
		rejection_reason TEXT,
		clocked_in_by UUID REFERENCES users(id) ON DELETE SET NULL,
		clocked_out_by UUID REFERENCES users(id) ON DELETE SET NULL,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		UNIQUE(staff_id, date)
	)`,

	`CREATE TABLE IF NOT EXISTS messages (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		sender_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		receiver_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		body VARCHAR(1000) NOT NULL,
		message_type VARCHAR(30) NOT NULL DEFAULT 'CHAT',
		is_read BOOLEAN NOT NULL DEFAULT FALSE,
		job_application_id UUID,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`,

	`CREATE INDEX IF NOT EXISTS idx_businesses_owner_id ON businesses(owner_id)`,
	`CREATE INDEX IF NOT EXISTS idx_business_staff_business_id ON business_staff(business_id)`,
	`CREATE INDEX IF NOT EXISTS idx_business_staff_user_id ON business_staff(user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_staff_invitations_worker_status ON staff_invitations(worker_id, status)`,
	`CREATE INDEX IF NOT EXISTS idx_hours_cards_status ON hours_cards(status)`,
	`CREATE INDEX IF NOT EXISTS idx_messages_receiver_read ON messages(receiver_id, is_read)`,
	`CREATE INDEX IF NOT EXISTS idx_messages_pair ON messages(sender_id, receiver_id, created_at)`,
}

func (db *DB) Migrate(ctx context.Context) error {
	for i, migration := range migrations {
		if _, err := db.Pool.Exec(ctx, migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
