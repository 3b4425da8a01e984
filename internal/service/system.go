package service

import (
	"context"

	"cinelove/internal/biz"
)

const (
	serviceName = "Cinelove API"
	Version     = "1.0.0"
)

// supportedLanguages is the language picker offered to clients, in display order.
var supportedLanguages = []LanguageReply{
	{Key: "hindi", Code: "hi", Name: "Hindi", TMDBCode: "hi"},
	{Key: "tamil", Code: "ta", Name: "Tamil", TMDBCode: "ta"},
	{Key: "telugu", Code: "te", Name: "Telugu", TMDBCode: "te"},
	{Key: "malayalam", Code: "ml", Name: "Malayalam", TMDBCode: "ml"},
	{Key: "kannada", Code: "kn", Name: "Kannada", TMDBCode: "kn"},
	{Key: "bengali", Code: "bn", Name: "Bengali", TMDBCode: "bn"},
	{Key: "marathi", Code: "mr", Name: "Marathi", TMDBCode: "mr"},
	{Key: "gujarati", Code: "gu", Name: "Gujarati", TMDBCode: "gu"},
	{Key: "punjabi", Code: "pa", Name: "Punjabi", TMDBCode: "pa"},
	{Key: "english", Code: "en", Name: "English", TMDBCode: "en"},
}

// SystemService answers the banner, health and language endpoints
type SystemService struct {
	movieUC *biz.MovieUseCase
}

func NewSystemService(movieUC *biz.MovieUseCase) *SystemService {
	return &SystemService{movieUC: movieUC}
}

func (s *SystemService) Root(_ context.Context, _ *EmptyRequest) (*RootReply, error) {
	return &RootReply{Message: serviceName + " is running!", Version: Version}, nil
}

// Health reports liveness and whether the metadata API key is set.
func (s *SystemService) Health(_ context.Context, _ *EmptyRequest) (*HealthReply, error) {
	return &HealthReply{
		Status:         "healthy",
		Service:        serviceName,
		TMDBConfigured: s.movieUC.Configured(),
	}, nil
}

func (s *SystemService) Languages(_ context.Context, _ *EmptyRequest) (*LanguagesReply, error) {
	langs := make([]LanguageReply, len(supportedLanguages))
	copy(langs, supportedLanguages)
	return &LanguagesReply{SupportedLanguages: langs}, nil
}
