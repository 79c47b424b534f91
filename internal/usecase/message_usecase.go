package usecase

import (
	"context"
	"log"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"unispace/internal/domain/model"
	repo "unispace/internal/repository"
)

// 新着お問い合わせの通知を送る約束。送信失敗は呼び出し側でログだけ。
type MessageNotifier interface {
	NotifyNewMessage(ctx context.Context, m model.Message) error
}

type MessageUsecase struct {
	messageRepo repo.MessageRepository
	auditRepo   repo.AuditLogRepository
	notifier    MessageNotifier // nilなら通知なし
}

func NewMessageUsecase(messageRepo repo.MessageRepository, auditRepo repo.AuditLogRepository, notifier MessageNotifier) *MessageUsecase {
	return &MessageUsecase{
		messageRepo: messageRepo,
		auditRepo:   auditRepo,
		notifier:    notifier,
	}
}

type SubmitMessageInput struct {
	Name  string
	Email string
	Phone string
	Body  string
}

// 公開フォームからの投稿。
func (u *MessageUsecase) Submit(ctx context.Context, in SubmitMessageInput) (model.Message, error) {
	name := strings.TrimSpace(in.Name)
	email := strings.TrimSpace(in.Email)
	body := strings.TrimSpace(in.Body)

	if name == "" {
		return model.Message{}, NewHTTPError(http.StatusBadRequest, "invalid name")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return model.Message{}, NewHTTPError(http.StatusBadRequest, "invalid email")
	}
	if body == "" {
		return model.Message{}, NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	m, err := u.messageRepo.Create(ctx, model.Message{
		Name:      name,
		Email:     email,
		Phone:     strings.TrimSpace(in.Phone),
		Body:      body,
		Status:    model.MessageStatusUnread,
		CreatedAt: time.Now(),
	})
	if err != nil {
		return model.Message{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	//通知はベストエフォート
	if u.notifier != nil {
		if err := u.notifier.NotifyNewMessage(ctx, m); err != nil {
			log.Printf("message %d: notify failed: %v", m.ID, err)
		}
	}

	return m, nil
}

type MessageListOutput struct {
	Items []model.Message `json:"items"`
	Total int64           `json:"total"`
}

// 管理者：一覧
func (u *MessageUsecase) List(ctx context.Context, actorAdminUserID int64, f repo.MessageListFilter) (MessageListOutput, error) {
	if actorAdminUserID <= 0 {
		return MessageListOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	items, total, err := u.messageRepo.List(ctx, f)
	if err != nil {
		return MessageListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return MessageListOutput{Items: items, Total: total}, nil
}

// 管理者：既読化。readからunreadへは戻さない。
func (u *MessageUsecase) MarkRead(ctx context.Context, actorAdminUserID int64, messageID int64) error {
	if actorAdminUserID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if messageID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	m, err := u.messageRepo.FindByID(ctx, messageID)
	if err == repo.ErrNotFound {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	//すでに既読なら何もしない
	if m.Status == model.MessageStatusRead {
		return nil
	}

	if err := u.messageRepo.UpdateStatus(ctx, messageID, model.MessageStatusRead); err != nil {
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if err := u.auditRepo.Create(ctx, model.AuditLog{
		ActorUserID:  actorAdminUserID,
		Action:       model.AuditActionUpdateMessageStatus,
		ResourceType: model.AuditResourceMessage,
		ResourceID:   messageID,
		BeforeJSON:   `{"status":"unread"}`,
		AfterJSON:    `{"status":"read"}`,
		CreatedAt:    time.Now(),
	}); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return nil
}
