package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fernet/fernet-go"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/ndewijer/ETF-Portfolio-Tracker-Backend/internal/apperrors"
	"github.com/ndewijer/ETF-Portfolio-Tracker-Backend/internal/config"
	"github.com/ndewijer/ETF-Portfolio-Tracker-Backend/internal/model"
)

const (
	backupPrefix       = "portfolio-"
	backupExt          = ".csv"
	encryptedBackupExt = ".csv.fernet"
	backupTimeLayout   = "20060102T150405Z"
)

// BackupService writes scheduled snapshot files and restores them.
// With a key configured, files are fernet tokens rather than plain CSV.
type BackupService struct {
	snapshots *SnapshotService
	dir       string
	schedule  string
	key       *fernet.Key
	cron      *cron.Cron
	logger    *zap.Logger
	now       func() time.Time
}

// NewBackupService creates a BackupService. An invalid key or schedule is an error.
func NewBackupService(snapshots *SnapshotService, cfg config.BackupConfig, logger *zap.Logger) (*BackupService, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &BackupService{
		snapshots: snapshots,
		dir:       cfg.Dir,
		schedule:  cfg.Schedule,
		logger:    logger,
		now:       time.Now,
	}

	if cfg.Key != "" {
		key, err := fernet.DecodeKey(cfg.Key)
		if err != nil {
			return nil, fmt.Errorf("invalid BACKUP_KEY: %w", err)
		}
		s.key = key
	}

	if cfg.Schedule != "" {
		if _, err := cron.ParseStandard(cfg.Schedule); err != nil {
			return nil, fmt.Errorf("invalid BACKUP_SCHEDULE %q: %w", cfg.Schedule, err)
		}
	}

	return s, nil
}

// Enabled reports whether a backup directory is configured.
func (s *BackupService) Enabled() bool {
	return s.dir != ""
}

// Start schedules periodic backups. It is a no-op when backups are disabled
// or no schedule is set.
func (s *BackupService) Start() error {
	if !s.Enabled() || s.schedule == "" {
		return nil
	}

	s.cron = cron.New()
	_, err := s.cron.AddFunc(s.schedule, func() {
		if _, err := s.Run(context.Background()); err != nil {
			s.logger.Error("Scheduled backup failed", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule backups: %w", err)
	}

	s.cron.Start()
	s.logger.Info("Backups scheduled",
		zap.String("dir", s.dir),
		zap.String("schedule", s.schedule),
		zap.Bool("encrypted", s.key != nil))
	return nil
}

// Stop halts the scheduler and waits for a running backup to finish.
func (s *BackupService) Stop() {
	if s.cron == nil {
		return
	}
	<-s.cron.Stop().Done()
}

// Run writes a snapshot file now.
func (s *BackupService) Run(_ context.Context) (model.BackupResult, error) {
	if !s.Enabled() {
		return model.BackupResult{}, apperrors.ErrBackupDisabled
	}

	data, err := s.snapshots.Export()
	if err != nil {
		return model.BackupResult{}, err
	}

	name := backupPrefix + s.now().UTC().Format(backupTimeLayout)
	if s.key != nil {
		data, err = fernet.EncryptAndSign(data, s.key)
		if err != nil {
			return model.BackupResult{}, fmt.Errorf("failed to encrypt backup: %w", err)
		}
		name += encryptedBackupExt
	} else {
		name += backupExt
	}

	path := filepath.Join(s.dir, name)
	if err := atomicWrite(path, data); err != nil {
		return model.BackupResult{}, err
	}

	result := model.BackupResult{
		Name:      name,
		Path:      path,
		Encrypted: s.key != nil,
		Bytes:     len(data),
	}
	s.logger.Info("Backup written",
		zap.String("name", result.Name),
		zap.String("path", path),
		zap.Int("bytes", result.Bytes),
		zap.Bool("encrypted", result.Encrypted))

	return result, nil
}

// List returns the backup file names in the backup directory, newest first.
func (s *BackupService) List() ([]string, error) {
	if !s.Enabled() {
		return nil, apperrors.ErrBackupDisabled
	}

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to list backups: %w", err)
	}

	names := []string{}
	for _, e := range entries {
		if e.IsDir() || !isBackupName(e.Name()) {
			continue
		}
		names = append(names, e.Name())
	}
	// The timestamp layout sorts lexically.
	sort.Sort(sort.Reverse(sort.StringSlice(names)))
	return names, nil
}

// Restore imports the named backup. Only the base name is used, so a
// restore cannot read outside the backup directory.
func (s *BackupService) Restore(ctx context.Context, name string, dryRun bool) (model.ImportResponse, error) {
	if !s.Enabled() {
		return model.ImportResponse{}, apperrors.ErrBackupDisabled
	}

	name = filepath.Base(name)
	if !isBackupName(name) {
		return model.ImportResponse{}, apperrors.ErrBackupNotFound
	}

	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return model.ImportResponse{}, apperrors.ErrBackupNotFound
		}
		return model.ImportResponse{}, fmt.Errorf("failed to read backup: %w", err)
	}

	if strings.HasSuffix(name, encryptedBackupExt) {
		if s.key == nil {
			return model.ImportResponse{}, fmt.Errorf("%w: no key configured", apperrors.ErrBackupDecrypt)
		}
		// A negative ttl accepts tokens of any age.
		data = fernet.VerifyAndDecrypt(data, -1, []*fernet.Key{s.key})
		if data == nil {
			return model.ImportResponse{}, apperrors.ErrBackupDecrypt
		}
	}

	resp, err := s.snapshots.Import(ctx, data, dryRun)
	if err != nil {
		return model.ImportResponse{}, err
	}

	s.logger.Info("Backup restored",
		zap.String("name", name),
		zap.Bool("dryRun", dryRun))
	return resp, nil
}

func isBackupName(name string) bool {
	return strings.HasPrefix(name, backupPrefix) &&
		(strings.HasSuffix(name, backupExt) || strings.HasSuffix(name, encryptedBackupExt))
}

// atomicWrite writes data to a temp file in the same directory and renames it into place.
func atomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create backup directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".backup-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write backup: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write backup: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to move backup into place: %w", err)
	}
	return nil
}
