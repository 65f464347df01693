package domain

// Categories lists every category filter value, "All" first.
var Categories = []string{CategoryAll, CategoryElectronics, CategoryApparel, CategoryHome, CategoryAccessories, CategoryTravel}

// CategoryVisuals are the category tiles of the home page.
var CategoryVisuals = []CategoryVisual{
	{Name: CategoryAll, Image: "https://images.unsplash.com/photo-1441986300917-64674bd600d8?auto=format&fit=crop&q=80&w=400"},
	{Name: CategoryElectronics, Image: "https://images.unsplash.com/photo-1519389950473-47ba0277781c?auto=format&fit=crop&q=80&w=400"},
	{Name: CategoryApparel, Image: "https://images.unsplash.com/photo-1516762689617-e1cffcef479d?auto=format&fit=crop&q=80&w=400"},
	{Name: CategoryHome, Image: "https://images.unsplash.com/photo-1493663284031-b7e3aefcae8e?auto=format&fit=crop&q=80&w=400"},
	{Name: CategoryAccessories, Image: "https://images.unsplash.com/photo-1523275335684-37898b6baf30?auto=format&fit=crop&q=80&w=400"},
	{Name: CategoryTravel, Image: "https://images.unsplash.com/photo-1553062407-98eeb64c6a62?auto=format&fit=crop&q=80&w=400"},
}

// Colors are the color swatches offered by the filter panel.
var Colors = []ColorSwatch{
	{Name: "Black", Hex: "#000000"},
	{Name: "White", Hex: "#FFFFFF"},
	{Name: "Gray", Hex: "#808080"},
	{Name: "Navy", Hex: "#000080"},
	{Name: "Silver", Hex: "#C0C0C0"},
	{Name: "Brown", Hex: "#A52A2A"},
	{Name: "Gold", Hex: "#FFD700"},
	{Name: "Green", Hex: "#006400"},
	{Name: "Beige", Hex: "#F5F5DC"},
}

// SeedProducts returns a fresh copy of the fixed catalog.
func SeedProducts() []Product {
	return []Product{
		{
			ID:          1,
			Name:        "Minimalist Chrono Watch",
			Price:       129.99,
			Category:    CategoryAccessories,
			Description: "A sleek timepiece with a genuine leather strap and sapphire crystal glass. Perfect for the modern professional.",
			Image:       "https://picsum.photos/seed/watch/600/600",
			Rating:      4.8,
			Colors:      []string{"Black", "Silver", "Brown"},
			Stock:       5,
			Images: []string{
				"https://picsum.photos/seed/watch-detail1/600/600",
				"https://picsum.photos/seed/watch-detail2/600/600",
				"https://picsum.photos/seed/watch-side/600/600",
			},
		},
		{
			ID:          2,
			Name:        "Urban Noise-Cancelling Headphones",
			Price:       249.50,
			Category:    CategoryElectronics,
			Description: "Immerse yourself in high-fidelity audio with active noise cancellation. 30-hour battery life.",
			Image:       "https://picsum.photos/seed/headphones/600/600",
			Rating:      4.9,
			Colors:      []string{"Black", "White"},
			Stock:       12,
			Images: []string{
				"https://picsum.photos/seed/hp-side/600/600",
				"https://picsum.photos/seed/hp-case/600/600",
			},
		},
		{
			ID:          3,
			Name:        "Merino Wool Crewneck",
			Price:       85.00,
			Category:    CategoryApparel,
			Description: "Ethically sourced merino wool. Breathable, warm, and incredibly soft against the skin.",
			Image:       "https://picsum.photos/seed/sweater/600/600",
			Rating:      4.5,
			Colors:      []string{"Gray", "Navy", "Beige"},
			Stock:       45,
			Images:      []string{"https://picsum.photos/seed/sweater-texture/600/600"},
		},
		{
			ID:          4,
			Name:        "Lumina Smart Lamp",
			Price:       59.99,
			Category:    CategoryHome,
			Description: "Voice-activated ambient lighting with 16 million colors. Syncs with your music.",
			Image:       "https://picsum.photos/seed/lamp/600/600",
			Rating:      4.2,
			Colors:      []string{"White", "Black"},
			Stock:       0,
		},
		{
			ID:          5,
			Name:        "Canvas Weekender Bag",
			Price:       110.00,
			Category:    CategoryTravel,
			Description: "Durable canvas construction with leather accents. Fits everything you need for a 3-day trip.",
			Image:       "https://picsum.photos/seed/bag/600/600",
			Rating:      4.7,
			Colors:      []string{"Green", "Brown", "Black"},
			Stock:       8,
			Images: []string{
				"https://picsum.photos/seed/bag-open/600/600",
				"https://picsum.photos/seed/bag-back/600/600",
			},
		},
		{
			ID:          6,
			Name:        "Mechanical Keyboard 60%",
			Price:       145.00,
			Category:    CategoryElectronics,
			Description: "Tactile brown switches with custom PBT keycaps. The ultimate typing experience for developers.",
			Image:       "https://picsum.photos/seed/keyboard/600/600",
			Rating:      4.9,
			Colors:      []string{"White", "Black", "Gray"},
			Stock:       25,
			Images: []string{
				"https://picsum.photos/seed/kb-zoom/600/600",
				"https://picsum.photos/seed/kb-side/600/600",
			},
		},
		{
			ID:          7,
			Name:        "Ceramic Pour-Over Set",
			Price:       45.00,
			Category:    CategoryHome,
			Description: "Handcrafted ceramic dripper and carafe. Elevate your morning coffee ritual.",
			Image:       "https://picsum.photos/seed/coffee/600/600",
			Rating:      4.6,
			Colors:      []string{"White", "Black"},
			Stock:       15,
		},
		{
			ID:          8,
			Name:        "Polarized Aviators",
			Price:       135.00,
			Category:    CategoryAccessories,
			Description: "Classic design with modern lens technology. 100% UV protection and glare reduction.",
			Image:       "https://picsum.photos/seed/glasses/600/600",
			Rating:      4.4,
			Colors:      []string{"Gold", "Silver", "Black"},
			Stock:       30,
		},
	}
}

// SeedReviews returns a fresh copy of the fixed reviews.
func SeedReviews() []Review {
	return []Review{
		{ID: 1, ProductID: 1, User: "Alex Morgan", Rating: 5, Date: "2 days ago", Content: "Absolutely love this watch! The quality is outstanding and it arrived much faster than I expected. Will definitely be buying more from Lumina.", Avatar: "https://api.dicebear.com/7.x/avataaars/svg?seed=Alex"},
		{ID: 2, ProductID: 1, User: "James Chen", Rating: 4, Date: "1 week ago", Content: "Looks even better in person. The leather strap is a bit stiff at first but breaks in nicely.", Avatar: "https://api.dicebear.com/7.x/avataaars/svg?seed=James"},
		{ID: 3, ProductID: 1, User: "Sarah Jenkins", Rating: 5, Date: "2 weeks ago", Content: "Perfect gift for my husband. He wears it every day.", Avatar: "https://api.dicebear.com/7.x/avataaars/svg?seed=Sarah"},
		{ID: 4, ProductID: 2, User: "Mike Ross", Rating: 5, Date: "3 days ago", Content: "The noise cancellation is top notch. I use them for coding and they really help me focus.", Avatar: "https://api.dicebear.com/7.x/avataaars/svg?seed=Mike"},
		{ID: 5, ProductID: 2, User: "Rachel Green", Rating: 3, Date: "1 month ago", Content: "Great sound, but a bit heavy on the head after a few hours.", Avatar: "https://api.dicebear.com/7.x/avataaars/svg?seed=Rachel"},
	}
}
