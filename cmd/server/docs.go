package main

//go:generate swag init -g cmd/server/main.go -o docs

// @title TradeMaster API
// @version 1.0
// @description Trading journal backend: trade records, derived statistics, plan items, backup and CSV import.
// @BasePath /api/v1
