package main

import (
	"context"
	"net/http"

	"github.com/joeydtaylor/unologin-go/pkg/codec"
	"github.com/joeydtaylor/unologin-go/pkg/middleware/auth"
)

type helloResponse struct {
	Message string `json:"message"`
	AsuID   string `json:"asuId,omitempty"`
}

func helloHandler(ctx context.Context, _ []byte) ([]byte, int, error) {
	resp := helloResponse{Message: "hello, stranger"}
	if u := auth.UserFromContext(ctx); u != nil {
		resp = helloResponse{Message: "hello", AsuID: u.AsuID}
	}
	out, err := codec.JSON.Marshal(resp)
	return out, http.StatusOK, err
}

type adminStatsResponse struct {
	AsuID       string   `json:"asuId"`
	UserClasses []string `json:"userClasses"`
}

// adminStatsHandler sits behind a user_classes guard, so the user is set.
func adminStatsHandler(ctx context.Context, _ []byte) ([]byte, int, error) {
	u := auth.UserFromContext(ctx)
	out, err := codec.JSON.Marshal(adminStatsResponse{AsuID: u.AsuID, UserClasses: u.UserClasses})
	return out, http.StatusOK, err
}
