package sqlite

import (
	"context"
	"database/sql"
)

// createAppMeta is applied before the stored version is read.
const createAppMeta = `CREATE TABLE IF NOT EXISTS app_meta (
    key TEXT PRIMARY KEY NOT NULL,
    value TEXT NOT NULL
);`

// Version 1 DDL.
const (
	createProfiles = `CREATE TABLE IF NOT EXISTS profiles (
    id TEXT PRIMARY KEY NOT NULL,
    email TEXT NOT NULL,
    display_name TEXT,
    diet_tags TEXT,
    height_cm REAL,
    weight_kg REAL,
    age INTEGER,
    sex TEXT,
    activity_level TEXT,
    goal TEXT,
    timezone TEXT,
    created_at TEXT NOT NULL
);`

	createRecipes = `CREATE TABLE IF NOT EXISTS recipes (
    id TEXT PRIMARY KEY NOT NULL,
    title TEXT NOT NULL,
    description TEXT,
    diet_tags TEXT,
    servings INTEGER NOT NULL DEFAULT 1,
    prep_time_min INTEGER,
    cook_time_min INTEGER,
    difficulty TEXT,
    image_url TEXT,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);`

	createIngredients = `CREATE TABLE IF NOT EXISTS ingredients (
    id TEXT PRIMARY KEY NOT NULL,
    name TEXT NOT NULL,
    calories REAL NOT NULL DEFAULT 0,
    protein REAL NOT NULL DEFAULT 0,
    carbs REAL NOT NULL DEFAULT 0,
    fat REAL NOT NULL DEFAULT 0,
    fiber REAL NOT NULL DEFAULT 0,
    sugar REAL NOT NULL DEFAULT 0,
    sodium REAL NOT NULL DEFAULT 0,
    unit_default TEXT
);`

	createRecipeIngredients = `CREATE TABLE IF NOT EXISTS recipe_ingredients (
    id TEXT PRIMARY KEY NOT NULL,
    recipe_id TEXT NOT NULL,
    ingredient_id TEXT NOT NULL,
    quantity REAL NOT NULL DEFAULT 0,
    unit TEXT NOT NULL,
    FOREIGN KEY (recipe_id) REFERENCES recipes(id),
    FOREIGN KEY (ingredient_id) REFERENCES ingredients(id)
);`

	createMealPlans = `CREATE TABLE IF NOT EXISTS meal_plans (
    id TEXT PRIMARY KEY NOT NULL,
    date TEXT NOT NULL,
    notes TEXT,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);`

	createMealItems = `CREATE TABLE IF NOT EXISTS meal_items (
    id TEXT PRIMARY KEY NOT NULL,
    meal_plan_id TEXT NOT NULL,
    type TEXT NOT NULL,
    meal_type TEXT NOT NULL,
    name TEXT NOT NULL,
    calories REAL NOT NULL DEFAULT 0,
    protein REAL NOT NULL DEFAULT 0,
    carbs REAL NOT NULL DEFAULT 0,
    fat REAL NOT NULL DEFAULT 0,
    servings REAL NOT NULL DEFAULT 1,
    FOREIGN KEY (meal_plan_id) REFERENCES meal_plans(id)
);`

	createGroceryItems = `CREATE TABLE IF NOT EXISTS grocery_items (
    id TEXT PRIMARY KEY NOT NULL,
    name TEXT NOT NULL,
    quantity REAL NOT NULL DEFAULT 1,
    unit TEXT,
    category TEXT,
    notes TEXT,
    priority INTEGER NOT NULL DEFAULT 0,
    checked INTEGER NOT NULL DEFAULT 0,
    created_at TEXT NOT NULL
);`

	createWaterLogs = `CREATE TABLE IF NOT EXISTS water_logs (
    id TEXT PRIMARY KEY NOT NULL,
    date TEXT NOT NULL,
    amount_ml INTEGER NOT NULL,
    target_ml INTEGER,
    source TEXT NOT NULL DEFAULT 'manual',
    created_at TEXT NOT NULL
);`

	createMacroLogs = `CREATE TABLE IF NOT EXISTS macro_logs (
    id TEXT PRIMARY KEY NOT NULL,
    date TEXT NOT NULL,
    calories REAL NOT NULL DEFAULT 0,
    protein REAL NOT NULL DEFAULT 0,
    carbs REAL NOT NULL DEFAULT 0,
    fat REAL NOT NULL DEFAULT 0,
    goal_calories REAL,
    goal_protein REAL,
    goal_carbs REAL,
    goal_fat REAL,
    created_at TEXT NOT NULL
);`
)

// Version 4 to 6 DDL.
const (
	createRecipeSteps = `CREATE TABLE IF NOT EXISTS recipe_steps (
    id TEXT PRIMARY KEY NOT NULL,
    recipe_id TEXT NOT NULL,
    step_number INTEGER NOT NULL,
    instruction TEXT NOT NULL,
    FOREIGN KEY (recipe_id) REFERENCES recipes(id)
);`

	createCustomFoods = `CREATE TABLE IF NOT EXISTS custom_foods (
    id TEXT PRIMARY KEY NOT NULL,
    profile_id TEXT NOT NULL,
    name TEXT NOT NULL,
    serving_size_g REAL NOT NULL DEFAULT 100,
    calories REAL NOT NULL DEFAULT 0,
    protein REAL NOT NULL DEFAULT 0,
    carbs REAL NOT NULL DEFAULT 0,
    fat REAL NOT NULL DEFAULT 0,
    created_at TEXT NOT NULL
);`

	createKVStore = `CREATE TABLE IF NOT EXISTS kv_store (
    key TEXT PRIMARY KEY NOT NULL,
    value TEXT NOT NULL,
    updated_at TEXT NOT NULL
);`
)

// Index DDL.
const (
	idxMealPlansProfileDate = `CREATE UNIQUE INDEX IF NOT EXISTS idx_meal_plans_profile_date ON meal_plans(profile_id, date);`
	idxMealItemsPlan        = `CREATE INDEX IF NOT EXISTS idx_meal_items_plan ON meal_items(meal_plan_id);`
	idxWaterLogsProfileDate = `CREATE INDEX IF NOT EXISTS idx_water_logs_profile_date ON water_logs(profile_id, date);`
	idxRecipesTitle         = `CREATE INDEX IF NOT EXISTS idx_recipes_title ON recipes(title);`
	idxRecipeIngredients    = `CREATE INDEX IF NOT EXISTS idx_recipe_ingredients_recipe ON recipe_ingredients(recipe_id);`
	idxRecipeSteps          = `CREATE INDEX IF NOT EXISTS idx_recipe_steps_recipe ON recipe_steps(recipe_id, step_number);`
	idxCustomFoodsProfile   = `CREATE INDEX IF NOT EXISTS idx_custom_foods_profile ON custom_foods(profile_id, created_at);`
)

// migrations lists every schema step in version order.
var migrations = []migration{
	{Version: 1, Name: "core_tables", Up: upCoreTables},
	{Version: 2, Name: "profile_scoping", Up: upProfileScoping},
	{Version: 3, Name: "meal_item_serving", Up: upMealItemServing},
	{Version: 4, Name: "recipe_details", Up: upRecipeDetails},
	{Version: 5, Name: "custom_foods", Up: upCustomFoods},
	{Version: 6, Name: "kv_store", Up: upKVStore},
}

func upCoreTables(ctx context.Context, tx *sql.Tx) error {
	return execAll(ctx, tx,
		createProfiles,
		createRecipes,
		createIngredients,
		createRecipeIngredients,
		createMealPlans,
		createMealItems,
		createGroceryItems,
		createWaterLogs,
		createMacroLogs,
		idxMealItemsPlan,
		idxRecipesTitle,
		idxRecipeIngredients,
	)
}

func upProfileScoping(ctx context.Context, tx *sql.Tx) error {
	for _, table := range []string{"meal_plans", "water_logs", "macro_logs"} {
		if err := addColumn(ctx, tx, table, "profile_id", "TEXT"); err != nil {
			return err
		}
	}
	return execAll(ctx, tx, idxMealPlansProfileDate, idxWaterLogsProfileDate)
}

func upMealItemServing(ctx context.Context, tx *sql.Tx) error {
	if err := addColumn(ctx, tx, "meal_items", "serving_unit", "TEXT"); err != nil {
		return err
	}
	if err := addColumn(ctx, tx, "meal_items", "base_amount", "REAL"); err != nil {
		return err
	}
	return addColumn(ctx, tx, "meal_items", "base_unit", "TEXT")
}

func upRecipeDetails(ctx context.Context, tx *sql.Tx) error {
	for _, col := range []string{"total_calories", "total_protein", "total_carbs", "total_fat"} {
		if err := addColumn(ctx, tx, "recipes", col, "REAL NOT NULL DEFAULT 0"); err != nil {
			return err
		}
	}
	return execAll(ctx, tx, createRecipeSteps, idxRecipeSteps)
}

func upCustomFoods(ctx context.Context, tx *sql.Tx) error {
	return execAll(ctx, tx, createCustomFoods, idxCustomFoodsProfile)
}

func upKVStore(ctx context.Context, tx *sql.Tx) error {
	return execAll(ctx, tx, createKVStore)
}
