package store

import (
	"context"
	"errors"

	"github.com/bytedance/sonic"
	"go.uber.org/zap"

	"github.com/sandeepkv93/tasktrack/internal/storage"
)

const DraftKey = "myApp_session"

// DraftStore holds the unsubmitted task name for the current session.
type DraftStore struct {
	kv     storage.KV
	logger *zap.Logger
}

func NewDraftStore(kv storage.KV, logger *zap.Logger) *DraftStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DraftStore{kv: kv, logger: logger}
}

func (d *DraftStore) Set(ctx context.Context, text string) bool {
	payload, err := sonic.ConfigStd.MarshalToString(text)
	if err != nil {
		d.logger.Error("failed to encode session data", zap.Error(err))
		return false
	}
	if err := d.kv.Set(ctx, DraftKey, payload); err != nil {
		d.logger.Error("failed to save session data", zap.Error(err))
		return false
	}
	return true
}

func (d *DraftStore) Get(ctx context.Context) string {
	raw, err := d.kv.Get(ctx, DraftKey)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			d.logger.Error("failed to retrieve session data", zap.Error(err))
		}
		return ""
	}
	var text string
	if err := sonic.ConfigStd.UnmarshalFromString(raw, &text); err != nil {
		d.logger.Error("session data is corrupted", zap.Error(err))
		return ""
	}
	return text
}

func (d *DraftStore) Clear(ctx context.Context) bool {
	if err := d.kv.Delete(ctx, DraftKey); err != nil {
		d.logger.Error("failed to clear session data", zap.Error(err))
		return false
	}
	return true
}
