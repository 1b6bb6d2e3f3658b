package session

import (
	"encoding/json"
	"fmt"

	"github.com/osse101/reelflow/internal/domain"
)

// DefaultRequestAdapter sends the round request unchanged.
func DefaultRequestAdapter(path string, req domain.RoundRequest) (string, any, error) {
	switch path {
	case domain.PathInit, domain.PathSpin, domain.PathFreeSpin, domain.PathBuyFeature:
		return path, req, nil
	}
	return "", nil, fmt.Errorf("%w: %s", domain.ErrUnknownPath, path)
}

// DefaultResponseAdapter decodes the JSON shapes of domain.InitialState and domain.RoundResult.
// The whole response is kept as raw state.
func DefaultResponseAdapter(path string, raw json.RawMessage) (Response, json.RawMessage, error) {
	if path == domain.PathInit {
		var initial domain.InitialState
		if err := json.Unmarshal(raw, &initial); err != nil {
			return Response{}, nil, fmt.Errorf("%w: %v", domain.ErrInvalidResponse, err)
		}
		if len(initial.Reels) == 0 {
			return Response{}, nil, fmt.Errorf("%w: initial state has no reels", domain.ErrInvalidResponse)
		}
		return Response{Initial: &initial}, raw, nil
	}

	var result domain.RoundResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return Response{}, nil, fmt.Errorf("%w: %v", domain.ErrInvalidResponse, err)
	}
	if len(result.Reels) == 0 {
		return Response{}, nil, fmt.Errorf("%w: round %q has no reels", domain.ErrInvalidResponse, result.RoundID)
	}
	return Response{Result: &result}, raw, nil
}
