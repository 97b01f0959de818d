// Package progress はトレーニング実績ログのドメインロジックを提供する。
package progress

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/gymlog/internal/model"
	"github.com/hitoshi/gymlog/internal/repository"
)

// DefaultRecentLimit は自分の最近の実績表示の上限件数。
const DefaultRecentLimit = 20

// AddInput は実績追加操作の入力。フォームから受け取った生の文字列を保持する。
type AddInput struct {
	Exercise string
	Weight   string // 任意。空なら未記録
	Reps     string // 任意。空なら未記録
	Notes    string
}

// parsedInput はバリデーション済みの入力。
type parsedInput struct {
	exercise string
	weight   *float64
	reps     *int
	notes    string
}

// validate は入力をトリムして検証し、最初の違反でエラーを返す。
// weight・repsはトリム後に空でない場合のみパースを試み、
// パースに失敗したらバリデーションエラーとする。
func (in AddInput) validate() (*parsedInput, error) {
	p := &parsedInput{
		exercise: strings.TrimSpace(in.Exercise),
		notes:    strings.TrimSpace(in.Notes),
	}

	if p.exercise == "" {
		return nil, model.NewValidationError("種目名は必須です。")
	}

	if w := strings.TrimSpace(in.Weight); w != "" {
		v, err := strconv.ParseFloat(w, 64)
		if err != nil {
			return nil, model.NewValidationError(fmt.Sprintf("重量は数値で入力してください: %s", w))
		}
		p.weight = &v
	}

	if r := strings.TrimSpace(in.Reps); r != "" {
		v, err := strconv.Atoi(r)
		if err != nil {
			return nil, model.NewValidationError(fmt.Sprintf("回数は整数で入力してください: %s", r))
		}
		p.reps = &v
	}

	return p, nil
}

// Service は実績ログのサービス層。
type Service struct {
	progressRepo repository.ProgressRepository
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(progressRepo repository.ProgressRepository) *Service {
	return &Service{progressRepo: progressRepo}
}

// Add は実績レコードを追記する。レコードは作成後に変更されない。
func (s *Service) Add(ctx context.Context, userID string, input AddInput) (*model.Progress, error) {
	parsed, err := input.validate()
	if err != nil {
		return nil, err
	}

	p := &model.Progress{
		ID:        uuid.New().String(),
		UserID:    userID,
		Exercise:  parsed.exercise,
		Weight:    parsed.weight,
		Reps:      parsed.reps,
		Notes:     parsed.notes,
		CreatedAt: time.Now(),
	}

	if err := s.progressRepo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("実績の保存に失敗しました: %w", err)
	}

	return p, nil
}

// ListRecent は自分の実績を新しい順にlimit件まで返す。
// limitが0以下の場合はDefaultRecentLimitを適用する。
func (s *Service) ListRecent(ctx context.Context, userID string, limit int) ([]*model.Progress, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}

	entries, err := s.progressRepo.ListRecentByUser(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("実績一覧の取得に失敗しました: %w", err)
	}

	return entries, nil
}
