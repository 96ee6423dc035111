package game

import "math/rand"

// categories maps a category name to its secret-word pool.
var categories = map[string][]string{
	"animals": {
		"Cat", "Dog", "Elephant", "Lion", "Tiger", "Bear", "Monkey", "Giraffe",
		"Zebra", "Penguin", "Dolphin", "Shark", "Eagle", "Owl", "Butterfly",
		"Spider", "Ant", "Bee", "Rabbit", "Fox", "Wolf", "Deer", "Horse", "Cow",
	},
	"famous-people": {
		"Einstein", "Leonardo da Vinci", "Napoleon", "Cleopatra", "Shakespeare",
		"Mozart", "Beethoven", "Picasso", "Gandhi", "Lincoln", "Washington",
		"Churchill", "Tesla", "Edison", "Jobs", "Gates", "Chaplin", "Monroe",
	},
	"movies": {
		"Titanic", "Avatar", "Star Wars", "Batman", "Superman", "Spider-Man",
		"Iron Man", "Avengers", "Frozen", "Shrek", "Toy Story", "Finding Nemo",
		"The Lion King", "Jurassic Park", "E.T.", "Jaws", "Rocky", "Terminator",
	},
	"countries": {
		"France", "Italy", "Japan", "Brazil", "Australia", "Canada", "Germany",
		"Russia", "India", "China", "Mexico", "Egypt", "Greece", "Spain",
		"Norway", "Sweden", "Netherlands", "Switzerland", "Argentina", "Chile",
	},
	"food": {
		"Pizza", "Burger", "Sushi", "Pasta", "Sandwich", "Salad", "Cake",
		"Ice Cream", "Donut", "Cookie", "Apple", "Banana", "Orange", "Grape",
		"Strawberry", "Chocolate", "Cheese", "Bread", "Rice", "Chicken",
	},
	"objects": {
		"Car", "House", "Tree", "Flower", "Sun", "Moon", "Star", "Cloud",
		"Mountain", "River", "Bridge", "Castle", "Tower", "Clock", "Phone",
		"Computer", "Book", "Pen", "Chair", "Table", "Cup", "Bottle", "Key",
	},
}

// ValidCategory reports whether a word pool exists for the given category.
func ValidCategory(category string) bool {
	_, ok := categories[category]
	return ok
}

// Categories returns the available category names.
func Categories() []string {
	names := make([]string, 0, len(categories))
	for name := range categories {
		names = append(names, name)
	}
	return names
}

// RandomWord picks a uniform random word from the category's pool.
func RandomWord(rng *rand.Rand, category string) string {
	words := categories[category]
	if len(words) == 0 {
		return ""
	}
	return words[rng.Intn(len(words))]
}

// randomWordAvoiding picks a word from the category's pool, excluding already
// used words when at least one unused word remains. With every word used (or
// a single-word pool) it falls back to the full pool.
func randomWordAvoiding(rng *rand.Rand, category string, used []string) string {
	words := categories[category]
	if len(words) == 0 {
		return ""
	}
	usedSet := make(map[string]struct{}, len(used))
	for _, w := range used {
		usedSet[w] = struct{}{}
	}
	fresh := make([]string, 0, len(words))
	for _, w := range words {
		if _, ok := usedSet[w]; !ok {
			fresh = append(fresh, w)
		}
	}
	if len(fresh) == 0 {
		return words[rng.Intn(len(words))]
	}
	return fresh[rng.Intn(len(fresh))]
}
