package main

import (
	"github.com/foodfeast/order/internal/app"
	"github.com/foodfeast/order/internal/config"
)

func main() {
	config.MustInit()
	app.MustNewApp().Run()
}
