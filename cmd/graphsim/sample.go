package main

import (
	"github.com/san-kum/graphsim/internal/config"
	"github.com/san-kum/graphsim/internal/content"
)

func sampleScene() *config.Scene {
	sc := config.DefaultScene()
	sc.Author = &content.Author{Name: "author"}
	sc.Articles = []content.Article{
		{Slug: "intro-to-go", Title: "Intro to Go", Category: "go", Importance: 5, Links: []string{"goroutines", "interfaces"}, ShowOnHome: true},
		{Slug: "goroutines", Title: "Goroutines", Category: "go", Importance: 3, Links: []string{"channels"}},
		{Slug: "channels", Title: "Channels", Category: "go", Importance: 3, Links: []string{"goroutines"}},
		{Slug: "interfaces", Title: "Interfaces", Category: "go", Importance: 2},
		{Slug: "verlet", Title: "Verlet integration", Category: "physics", Importance: 4, Links: []string{"springs"}, ShowOnHome: true},
		{Slug: "springs", Title: "Damped springs", Category: "physics", Importance: 3, Links: []string{"collisions"}},
		{Slug: "collisions", Title: "Circle collisions", Category: "physics", Importance: 2},
		{Slug: "force-layouts", Title: "Force layouts", Category: "graphs", Importance: 4, Links: []string{"springs", "verlet", "intro-to-go"}, ShowOnHome: true},
		{Slug: "quadtrees", Title: "Quadtrees", Category: "graphs", Importance: 1, Links: []string{"force-layouts"}},
	}
	return sc
}
