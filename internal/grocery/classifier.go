package grocery

import "strings"

// Category is a shopping category with the keywords that select it.
type Category struct {
	ID       string
	Label    string
	Keywords []string
}

// Category IDs in display and tie-break order.
const (
	CategoryProduce   = "produce"
	CategoryMeat      = "meat"
	CategoryDairy     = "dairy"
	CategoryGrains    = "grains"
	CategoryOils      = "oils"
	CategorySpices    = "spices"
	CategoryBeverages = "beverages"
	CategorySweets    = "sweets"
	CategoryFrozen    = "frozen"
	CategoryOther     = "other"
)

// categories is scanned in order; the first category with a keyword
// contained in the item name wins. "pepper" appears in both produce and
// spices and therefore always resolves to produce.
var categories = []Category{
	{
		ID:    CategoryProduce,
		Label: "Produce",
		Keywords: []string{
			"apple", "banana", "berry", "broccoli", "carrot", "cucumber",
			"garlic", "onion", "pepper", "lettuce", "spinach", "tomato",
			"avocado", "fruit", "vegetable", "greens", "herb",
		},
	},
	{
		ID:       CategoryMeat,
		Label:    "Meat & Fish",
		Keywords: []string{"chicken", "beef", "pork", "turkey", "fish", "salmon", "shrimp", "tuna"},
	},
	{
		ID:       CategoryDairy,
		Label:    "Dairy & Alternatives",
		Keywords: []string{"milk", "yogurt", "cheese", "butter", "cream", "almond milk", "oat milk"},
	},
	{
		ID:       CategoryGrains,
		Label:    "Grains & Carbs",
		Keywords: []string{"rice", "pasta", "bread", "oats", "tortilla", "noodle", "quinoa"},
	},
	{
		ID:       CategoryOils,
		Label:    "Oils & Condiments",
		Keywords: []string{"oil", "vinegar", "sauce", "ketchup", "mustard", "mayo", "dressing"},
	},
	{
		ID:       CategorySpices,
		Label:    "Spices",
		Keywords: []string{"salt", "pepper", "spice", "paprika", "cumin", "curry", "oregano", "basil"},
	},
	{
		ID:       CategoryBeverages,
		Label:    "Beverages",
		Keywords: []string{"juice", "tea", "coffee", "water", "sparkling"},
	},
	{
		ID:    CategorySweets,
		Label: "Sweets",
		Keywords: []string{
			"chocolate", "candy", "dessert", "cookie", "cake", "sugar",
			"sweet", "protein bar", "pudding", "protein shake",
		},
	},
	{
		ID:       CategoryFrozen,
		Label:    "Frozen",
		Keywords: []string{"frozen"},
	},
	{
		ID:    CategoryOther,
		Label: "Other",
	},
}

// Categories returns a copy of the ordered category list.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// CategoryOrder returns the category IDs in order.
func CategoryOrder() []string {
	ids := make([]string, len(categories))
	for i, c := range categories {
		ids[i] = c.ID
	}
	return ids
}

// Classify returns the first category, in order, that has a keyword
// contained case-insensitively in name. Names matching nothing are Other.
func Classify(name string) Category {
	value := strings.ToLower(name)
	for _, c := range categories {
		for _, kw := range c.Keywords {
			if strings.Contains(value, kw) {
				return c
			}
		}
	}
	return categories[len(categories)-1]
}
