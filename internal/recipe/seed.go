package recipe

// seedPool is the embedded set of representative recipes served whenever the
// catalog cannot be trusted (cold start, transport failure, quota exhaustion,
// empty result). It is only ever used whole, never merged with live results.
var seedPool = []Recipe{
	{
		ID:             1,
		Title:          "Spaghetti Carbonara",
		Image:          "https://images.unsplash.com/photo-1612874742237-6526221588e3?w=400",
		Tags:           []string{"Italian", "Pasta"},
		ReadyInMinutes: 30,
		Servings:       4,
		Summary:        "A classic Italian pasta dish made with eggs, cheese, and bacon.",
	},
	{
		ID:             2,
		Title:          "Chicken Tikka Masala",
		Image:          "https://images.unsplash.com/photo-1565557623262-b51c2513a641?w=400",
		Tags:           []string{"Indian", "Curry"},
		ReadyInMinutes: 45,
		Servings:       6,
		Summary:        "Tender chicken in a creamy, spiced tomato sauce.",
	},
	{
		ID:             3,
		Title:          "Caesar Salad",
		Image:          "https://images.unsplash.com/photo-1546793665-c74683f339c1?w=400",
		Tags:           []string{"Salad", "Healthy"},
		ReadyInMinutes: 15,
		Servings:       2,
		Summary:        "Fresh romaine lettuce with classic Caesar dressing and croutons.",
	},
	{
		ID:             4,
		Title:          "Beef Tacos",
		Image:          "https://images.unsplash.com/photo-1565299585323-38d6b0865b47?w=400",
		Tags:           []string{"Mexican", "Quick"},
		ReadyInMinutes: 25,
		Servings:       4,
		Summary:        "Seasoned ground beef in crispy taco shells with fresh toppings.",
	},
	{
		ID:             5,
		Title:          "Mushroom Risotto",
		Image:          "https://images.unsplash.com/photo-1476124369491-c404fae0a326?w=400",
		Tags:           []string{"Italian", "Vegetarian"},
		ReadyInMinutes: 40,
		Servings:       4,
		Summary:        "Creamy Italian rice dish with savory mushrooms and parmesan.",
	},
	{
		ID:             6,
		Title:          "Chocolate Chip Cookies",
		Image:          "https://images.unsplash.com/photo-1499636136210-6f4ee915583e?w=400",
		Tags:           []string{"Dessert", "Baking"},
		ReadyInMinutes: 20,
		Servings:       24,
		Summary:        "Classic homemade cookies with melty chocolate chips.",
	},
}

// SeedPool returns a fresh copy of the fallback recipe set.
func SeedPool() []Recipe {
	out := make([]Recipe, len(seedPool))
	copy(out, seedPool)
	return out
}
