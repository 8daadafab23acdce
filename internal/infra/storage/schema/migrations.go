package schema

// migration одна версия схемы; statements выполняются по порядку в одной транзакции
type migration struct {
	version  int
	name     string
	postgres []string
	sqlite   []string
}

var migrations = []migration{
	{
		version: 1,
		name:    "rooms and bookings",
		postgres: []string{
			`CREATE TABLE IF NOT EXISTS rooms (
				id       BIGSERIAL PRIMARY KEY,
				name     VARCHAR(100) NOT NULL UNIQUE,
				category VARCHAR(20)  NOT NULL CHECK (category IN ('general', 'specialized'))
			)`,
			`CREATE TABLE IF NOT EXISTS bookings (
				id               BIGSERIAL PRIMARY KEY,
				user_name        VARCHAR(120) NOT NULL,
				user_email       VARCHAR(254) NOT NULL,
				coordinator_name VARCHAR(120),
				room_id          BIGINT       NOT NULL REFERENCES rooms (id),
				booking_date     DATE         NOT NULL,
				period           VARCHAR(10)  NOT NULL CHECK (period IN ('Manhã', 'Tarde')),
				created_at       TIMESTAMPTZ  NOT NULL,
				CONSTRAINT bookings_slot_unique UNIQUE (room_id, booking_date, period)
			)`,
			`CREATE INDEX IF NOT EXISTS idx_bookings_user_date ON bookings (user_name, booking_date)`,
			`CREATE INDEX IF NOT EXISTS idx_bookings_date ON bookings (booking_date)`,
		},
		sqlite: []string{
			`CREATE TABLE IF NOT EXISTS rooms (
				id       INTEGER PRIMARY KEY AUTOINCREMENT,
				name     TEXT NOT NULL UNIQUE,
				category TEXT NOT NULL CHECK (category IN ('general', 'specialized'))
			)`,
			`CREATE TABLE IF NOT EXISTS bookings (
				id               INTEGER PRIMARY KEY AUTOINCREMENT,
				user_name        TEXT    NOT NULL,
				user_email       TEXT    NOT NULL,
				coordinator_name TEXT,
				room_id          INTEGER NOT NULL REFERENCES rooms (id),
				booking_date     TEXT    NOT NULL,
				period           TEXT    NOT NULL CHECK (period IN ('Manhã', 'Tarde')),
				created_at       TEXT    NOT NULL,
				UNIQUE (room_id, booking_date, period)
			)`,
			`CREATE INDEX IF NOT EXISTS idx_bookings_user_date ON bookings (user_name, booking_date)`,
			`CREATE INDEX IF NOT EXISTS idx_bookings_date ON bookings (booking_date)`,
		},
	},
}
