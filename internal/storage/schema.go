// ABOUTME: SQLite schema definition and initialization.
// ABOUTME: Defines tables for profiles, the exercise catalog, plans, food logs, sessions and activity.
package storage

// initSchema creates or updates the database schema.
func (d *DB) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS profiles (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		weight_kg REAL,
		height_cm REAL,
		age INTEGER,
		sex TEXT,
		fitness_level TEXT,
		goals TEXT NOT NULL DEFAULT '[]',
		activity_level TEXT,
		total_workouts INTEGER NOT NULL DEFAULT 0,
		streak_days INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS exercises (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		description TEXT,
		muscle_groups TEXT NOT NULL DEFAULT '[]',
		equipment TEXT NOT NULL DEFAULT '[]',
		time_based INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS plans (
		id TEXT PRIMARY KEY,
		profile_id TEXT NOT NULL,
		name TEXT NOT NULL,
		description TEXT,
		difficulty TEXT,
		duration_weeks INTEGER NOT NULL,
		workouts_per_week INTEGER NOT NULL,
		exercises_per_workout INTEGER NOT NULL,
		rest_days INTEGER NOT NULL,
		fitness_score REAL NOT NULL,
		tags TEXT NOT NULL DEFAULT '[]',
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL,
		FOREIGN KEY (profile_id) REFERENCES profiles(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS plan_exercises (
		id TEXT PRIMARY KEY,
		plan_id TEXT NOT NULL,
		exercise_id TEXT NOT NULL,
		exercise_name TEXT NOT NULL,
		sets INTEGER NOT NULL,
		reps INTEGER,
		duration_seconds INTEGER,
		rest_seconds INTEGER NOT NULL,
		order_index INTEGER NOT NULL,
		notes TEXT,
		FOREIGN KEY (plan_id) REFERENCES plans(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS foods (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		brand TEXT,
		barcode TEXT,
		calories_per_100g REAL NOT NULL,
		protein_per_100g REAL NOT NULL,
		carbs_per_100g REAL NOT NULL,
		fat_per_100g REAL NOT NULL,
		fiber_per_100g REAL NOT NULL DEFAULT 0,
		sugar_per_100g REAL NOT NULL DEFAULT 0,
		sodium_per_100g REAL NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS food_entries (
		id TEXT PRIMARY KEY,
		profile_id TEXT NOT NULL,
		entry_date TEXT NOT NULL,
		meal_type TEXT NOT NULL,
		food_id TEXT,
		quantity_grams REAL NOT NULL DEFAULT 0,
		custom_name TEXT,
		custom_calories REAL,
		custom_protein REAL,
		custom_carbs REAL,
		custom_fat REAL,
		created_at DATETIME NOT NULL,
		FOREIGN KEY (profile_id) REFERENCES profiles(id) ON DELETE CASCADE,
		FOREIGN KEY (food_id) REFERENCES foods(id)
	);

	CREATE TABLE IF NOT EXISTS daily_nutrition (
		profile_id TEXT NOT NULL,
		entry_date TEXT NOT NULL,
		total_calories INTEGER NOT NULL,
		total_protein REAL NOT NULL,
		total_carbs REAL NOT NULL,
		total_fat REAL NOT NULL,
		entry_count INTEGER NOT NULL,
		updated_at DATETIME NOT NULL,
		PRIMARY KEY (profile_id, entry_date),
		FOREIGN KEY (profile_id) REFERENCES profiles(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS workout_sessions (
		id TEXT PRIMARY KEY,
		profile_id TEXT NOT NULL,
		plan_id TEXT,
		started_at DATETIME NOT NULL,
		completed_at DATETIME,
		duration_minutes INTEGER,
		difficulty_rating INTEGER,
		calories_burned INTEGER,
		notes TEXT,
		created_at DATETIME NOT NULL,
		FOREIGN KEY (profile_id) REFERENCES profiles(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS activity_records (
		profile_id TEXT NOT NULL,
		entry_date TEXT NOT NULL,
		source TEXT NOT NULL,
		steps INTEGER NOT NULL DEFAULT 0,
		distance_km REAL NOT NULL DEFAULT 0,
		active_calories INTEGER NOT NULL DEFAULT 0,
		active_minutes INTEGER NOT NULL DEFAULT 0,
		heart_rate_avg INTEGER,
		sleep_hours REAL,
		updated_at DATETIME NOT NULL,
		PRIMARY KEY (profile_id, entry_date, source),
		FOREIGN KEY (profile_id) REFERENCES profiles(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS plan_adjustments (
		id TEXT PRIMARY KEY,
		plan_id TEXT NOT NULL,
		window_start TEXT NOT NULL,
		window_end TEXT NOT NULL,
		decision TEXT NOT NULL,
		rationale TEXT,
		workouts_completed INTEGER NOT NULL,
		workouts_planned INTEGER NOT NULL,
		average_rating REAL,
		applied_at DATETIME NOT NULL,
		UNIQUE (plan_id, window_start),
		FOREIGN KEY (plan_id) REFERENCES plans(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_plans_profile ON plans(profile_id, created_at DESC);
	CREATE INDEX IF NOT EXISTS idx_plan_exercises_plan ON plan_exercises(plan_id, order_index);
	CREATE INDEX IF NOT EXISTS idx_foods_barcode ON foods(barcode);
	CREATE INDEX IF NOT EXISTS idx_food_entries_day ON food_entries(profile_id, entry_date);
	CREATE INDEX IF NOT EXISTS idx_sessions_started ON workout_sessions(profile_id, started_at);
	`

	_, err := d.db.Exec(schema)
	return err
}
