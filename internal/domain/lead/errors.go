package lead

import "errors"

var (
	ErrLeadNotFound  = errors.New("lead not found")
	ErrInvalidStatus = errors.New("invalid qualification status")
	ErrNoIDs         = errors.New("no lead ids given")
)
