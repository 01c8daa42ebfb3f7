package main

import "studyfunnel_backend/internal/app"

func main() {
	app.Execute()
}
