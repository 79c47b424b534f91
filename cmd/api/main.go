package main

import (
	"log"
	"time"

	"unispace/internal/config"
	"unispace/internal/domain/model"
	"unispace/internal/handler"
	"unispace/internal/infra/db"
	"unispace/internal/infra/mail"
	infraRepo "unispace/internal/infra/repository"
	"unispace/internal/infra/storage"
	"unispace/internal/realtime"
	"unispace/internal/server"
	"unispace/internal/usecase"

	"github.com/golang-jwt/jwt/v5"
	"github.com/joho/godotenv"
)

type jwtIssuer struct {
	secret    []byte
	accessTTL time.Duration
}

func (i *jwtIssuer) Issue(userID int64, role model.Role, now time.Time) (string, time.Time, error) {
	expiresAt := now.Add(i.accessTTL)

	claims := jwt.MapClaims{
		"sub":  userID,
		"role": string(role),
		"iat":  now.Unix(),
		"exp":  expiresAt.Unix(),
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, err
	}

	return signed, expiresAt, nil
}

func main() {
	// .envは無くてもよい（本番は実環境変数）
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	//DB接続
	gormDB, err := db.Connect()
	if err != nil {
		log.Fatal(err)
	}
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Product{},
		&model.CartItem{},
		&model.Order{},
		&model.OrderItem{},
		&model.Message{},
		&model.AuditLog{},
	); err != nil {
		log.Fatal(err)
	}

	//変更通知ブローカー。Redisがあれば共有、なければプロセス内
	var broker realtime.Broker
	if cfg.RedisAddr != "" {
		rb, err := realtime.NewRedisBroker(cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			log.Fatal(err)
		}
		defer rb.Close()
		broker = rb
	} else {
		log.Println("REDIS_ADDR not set, using in-process broker")
		broker = realtime.NewMemoryBroker()
	}

	//Repository（GORM実装）生成
	userRepo := infraRepo.NewUserGormRepository(gormDB)
	productRepo := infraRepo.NewProductGormRepository(gormDB)
	orderRepo := infraRepo.NewOrderGormRepository(gormDB)
	orderItemRepo := infraRepo.NewOrderItemGormRepository(gormDB)
	messageRepo := infraRepo.NewMessageGormRepository(gormDB)
	auditRepo := infraRepo.NewAuditLogGormRepository(gormDB)
	txManager := infraRepo.NewTxManagerGorm(gormDB)

	//カートの書き込みは全部ここを通す（変更イベントを必ず出すため）
	cartItemRepo := realtime.NewPublishingCartItemRepository(
		infraRepo.NewCartItemGormRepository(gormDB), broker)

	//画像ストレージ（MinIO）。未設定なら無効
	var images *storage.ImageStorage
	if cfg.MinioEndpoint != "" {
		images, err = storage.NewImageStorage(cfg)
		if err != nil {
			log.Fatal(err)
		}
	} else {
		log.Println("MINIO_ENDPOINT not set, image upload disabled")
	}

	//お問い合わせ通知メール。未設定なら無効
	var notifier usecase.MessageNotifier
	if cfg.SMTPHost != "" {
		notifier = mail.NewMailer(cfg)
	} else {
		log.Println("SMTP_HOST not set, message notification disabled")
	}

	//JWT issuer
	issuer := &jwtIssuer{
		secret:    []byte(cfg.JWTSecret),
		accessTTL: 15 * time.Minute,
	}

	//Usecase生成
	authUC := usecase.NewAuthUsecase(userRepo, issuer, 12)
	productUC := usecase.NewProductUsecase(productRepo, auditRepo)
	cartUC := usecase.NewCartUsecase(cartItemRepo, productRepo)
	orderUC := usecase.NewOrderUsecase(cartItemRepo, productRepo, orderRepo, orderItemRepo, txManager)
	adminOrderUC := usecase.NewAdminOrderUsecase(txManager, auditRepo)
	messageUC := usecase.NewMessageUsecase(messageRepo, auditRepo, notifier)
	adminOverviewUC := usecase.NewAdminOverviewUsecase(userRepo, orderRepo, messageRepo)

	//Handler生成
	handlers := server.Handlers{
		Auth:          handler.NewAuthHandler(authUC),
		Product:       handler.NewProductHandler(productUC),
		Cart:          handler.NewCartHandler(cartUC),
		CartWS:        handler.NewCartWSHandler(cartItemRepo, broker),
		Order:         handler.NewOrderHandler(orderUC),
		Message:       handler.NewMessageHandler(messageUC),
		AdminProduct:  handler.NewAdminProductHandler(productUC, images),
		AdminOrder:    handler.NewAdminOrderHandler(adminOrderUC),
		AdminMessage:  handler.NewAdminMessageHandler(messageUC),
		AdminOverview: handler.NewAdminOverviewHandler(adminOverviewUC),
		AdminBoardWS:  handler.NewAdminBoardWSHandler(adminOrderUC, messageUC, orderRepo, messageRepo),
	}

	//Server起動
	e := server.New(cfg)
	if err := server.Start(e, cfg, handlers); err != nil {
		log.Fatal(err)
	}
}
