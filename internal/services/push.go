package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	webpush "github.com/SherClockHolmes/webpush-go"
	"github.com/google/uuid"

	"github.com/yungbote/mooddiary-backend/internal/data/repos"
	"github.com/yungbote/mooddiary-backend/internal/domain"
	"github.com/yungbote/mooddiary-backend/internal/platform/envutil"
	"github.com/yungbote/mooddiary-backend/internal/platform/logger"
)

// PushConfig holds the VAPID keypair the web-push sender signs with.
type PushConfig struct {
	VAPIDPublicKey  string
	VAPIDPrivateKey string
	Subscriber      string
	TTLSeconds      int
}

func PushConfigFromEnv() PushConfig {
	return PushConfig{
		VAPIDPublicKey:  envutil.String("VAPID_PUBLIC_KEY", ""),
		VAPIDPrivateKey: envutil.String("VAPID_PRIVATE_KEY", ""),
		Subscriber:      envutil.String("VAPID_SUBSCRIBER", "mailto:admin@mood-diary.de"),
		TTLSeconds:      envutil.Int("WEB_PUSH_TTL_SECONDS", 3600),
	}
}

// WebPushService delivers rule notifications to a client's registered
// browser endpoints. Delivery is best effort: the client may have revoked
// the permission or dropped the endpoint, neither of which is an error of
// the evaluation that triggered the push.
type WebPushService struct {
	clients repos.ClientRepo
	subs    repos.PushSubscriptionRepo
	cfg     PushConfig
	log     *logger.Logger
}

func NewWebPushService(clients repos.ClientRepo, subs repos.PushSubscriptionRepo, cfg PushConfig, baseLog *logger.Logger) *WebPushService {
	return &WebPushService{
		clients: clients,
		subs:    subs,
		cfg:     cfg,
		log:     baseLog.With("service", "WebPushService"),
	}
}

type pushPayload struct {
	Title   string `json:"title"`
	Message string `json:"message"`
}

// SendRuleTriggered pushes the rule's conclusion to every subscription of
// the client. Gone endpoints (404/410) are pruned on the way.
func (s *WebPushService) SendRuleTriggered(ctx context.Context, clientID uuid.UUID, title, message string) error {
	if s.cfg.VAPIDPrivateKey == "" || s.cfg.VAPIDPublicKey == "" {
		s.log.Debug("Web push disabled, no VAPID keys configured", "client_id", clientID)
		return nil
	}

	client, err := s.clients.GetByID(ctx, nil, clientID)
	if err != nil {
		return err
	}
	if client == nil || !granted(client) {
		return nil
	}

	subscriptions, err := s.subs.ListByClient(ctx, nil, clientID)
	if err != nil {
		return err
	}
	if len(subscriptions) == 0 {
		return nil
	}

	payload, err := json.Marshal(pushPayload{Title: title, Message: message})
	if err != nil {
		return err
	}

	var errs []error
	for _, sub := range subscriptions {
		if err := s.send(ctx, sub, payload); err != nil {
			errs = append(errs, fmt.Errorf("endpoint %s: %w", sub.Endpoint, err))
		}
	}
	return errors.Join(errs...)
}

func (s *WebPushService) send(ctx context.Context, sub *domain.PushSubscription, payload []byte) error {
	target := &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256dhKey,
			Auth:   sub.AuthKey,
		},
	}
	resp, err := webpush.SendNotificationWithContext(ctx, payload, target, &webpush.Options{
		Subscriber:      s.cfg.Subscriber,
		VAPIDPublicKey:  s.cfg.VAPIDPublicKey,
		VAPIDPrivateKey: s.cfg.VAPIDPrivateKey,
		TTL:             s.cfg.TTLSeconds,
	})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusNotFound, http.StatusGone:
		// The browser dropped the endpoint; keep the table clean.
		s.log.Info("Pruning stale push subscription", "client_id", sub.ClientID, "subscription_id", sub.ID)
		return s.subs.DeleteByID(ctx, nil, sub.ID)
	default:
		if resp.StatusCode >= 400 {
			return fmt.Errorf("push endpoint returned %d", resp.StatusCode)
		}
	}
	return nil
}

func granted(client *domain.Client) bool {
	return client.PushNotificationsGranted != nil && *client.PushNotificationsGranted
}
