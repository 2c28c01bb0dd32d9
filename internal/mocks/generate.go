// Package mocks provides gomock implementations of the service interfaces the
// HTTP handlers depend on.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	jobs := mocks.NewMockJobService(ctrl)
//	jobs.EXPECT().Get(gomock.Any(), int64(1)).Return(job, nil)
package mocks

//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=job_service_mock.go github.com/sumire/jobboard/internal/handler JobService
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=application_service_mock.go github.com/sumire/jobboard/internal/handler ApplicationService
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=evaluation_service_mock.go github.com/sumire/jobboard/internal/handler EvaluationService
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=notification_service_mock.go github.com/sumire/jobboard/internal/handler NotificationService
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=moderation_service_mock.go github.com/sumire/jobboard/internal/handler ModerationService
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=token_validator_mock.go github.com/sumire/jobboard/internal/handler TokenValidator
