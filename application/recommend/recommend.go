package recommend

import (
	"context"
	"encoding/json"

	"github.com/muhammadheryan/internmatch/constant"
	"github.com/muhammadheryan/internmatch/thirdparty/recommender"
	"github.com/muhammadheryan/internmatch/utils/errors"
	"github.com/muhammadheryan/internmatch/utils/logger"
	"go.uber.org/zap"
)

type RecommendApp interface {
	// Recommend forwards a JSON query verbatim and returns the upstream JSON verbatim.
	Recommend(ctx context.Context, body []byte) (json.RawMessage, error)
}

type RecommendAppImpl struct {
	client recommender.Client
}

func NewRecommendApp(client recommender.Client) RecommendApp {
	return &RecommendAppImpl{client: client}
}

func (s *RecommendAppImpl) Recommend(ctx context.Context, body []byte) (json.RawMessage, error) {
	if !json.Valid(body) {
		return nil, errors.SetCustomError(constant.ErrInvalidRequest)
	}

	out, err := s.client.Recommend(ctx, body)
	if err != nil {
		logger.Error("[Recommend] err client.Recommend", zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrRecommendUpstream)
	}
	if !json.Valid(out) {
		logger.Error("[Recommend] upstream returned non-JSON body", zap.Int("size", len(out)))
		return nil, errors.SetCustomError(constant.ErrRecommendUpstream)
	}
	return json.RawMessage(out), nil
}
