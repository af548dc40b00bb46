package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/Windi-Fikriyansyah/easyrepair_be/internal/config"
	"github.com/Windi-Fikriyansyah/easyrepair_be/internal/db"
	"github.com/Windi-Fikriyansyah/easyrepair_be/internal/realtime"
	"github.com/Windi-Fikriyansyah/easyrepair_be/internal/routes"
	"github.com/Windi-Fikriyansyah/easyrepair_be/internal/storage"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	gdb, err := db.Connect(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		log.Fatal(err)
	}
	if err := db.Migrate(gdb); err != nil {
		log.Fatal(err)
	}
	if err := db.EnsureAdmin(gdb, cfg.AdminUsername, cfg.AdminPassword); err != nil {
		log.Fatal("ensure admin: ", err)
	}

	var notifier realtime.Notifier = realtime.NopNotifier{}
	if cfg.RedisAddr != "" {
		rdb := realtime.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			log.Fatal("Redis not reachable: ", err)
		}
		defer rdb.Close()
		notifier = &realtime.RedisNotifier{RDB: rdb}
		log.Println("Redis notifications enabled")
	}

	var uploader storage.Uploader
	if cfg.UseS3() {
		uploader = storage.NewS3Uploader(storage.S3Config{
			Bucket:        cfg.S3Bucket,
			Region:        cfg.S3Region,
			Endpoint:      cfg.S3Endpoint,
			AccessKey:     cfg.S3AccessKey,
			SecretKey:     cfg.S3SecretKey,
			PublicBaseURL: cfg.S3PublicBaseURL,
		})
		log.Printf("Uploads go to s3 bucket %s", cfg.S3Bucket)
	} else {
		uploader = &storage.LocalUploader{Dir: cfg.UploadDir, PublicPath: "/uploads"}
	}

	srv := routes.New(routes.Options{
		Config:     cfg,
		DB:         gdb,
		Notifier:   notifier,
		Uploader:   uploader,
		RequestLog: true,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv.Subs.StartExpiryWorker(ctx, time.Hour)

	go func() {
		<-ctx.Done()
		log.Println("Shutting down...")
		if err := srv.App.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Printf("shutdown: %v", err)
		}
	}()

	log.Printf("Server running on :%s", cfg.AppPort)
	if err := srv.App.Listen(":" + cfg.AppPort); err != nil {
		log.Fatal(err)
	}

	srv.Close()
}
