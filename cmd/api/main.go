package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/noah-isme/course-feedback-api/api/swagger"
)

// @title Course Feedback API
// @version 1.0.0
// @description Course, feedback session and recycle bin management API
// @BasePath /webapi
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @securityDefinitions.apikey BackdoorKey
// @in header
// @name Backdoor-Key
// @securityDefinitions.apikey CSRFKey
// @in header
// @name CSRF-Key

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(ctx).ExecuteContext(ctx); err != nil {
		log.Printf("course-feedback-api: %v", err)
		os.Exit(1)
	}
}
