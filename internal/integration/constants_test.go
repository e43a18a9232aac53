package integration_test

const (
	TestShowID        = 1
	TestRunningShowID = 2

	TestUserX = 10
	TestUserY = 20

	TestSeatA1 = 1
	TestSeatA2 = 2
	TestSeatA3 = 3
	TestSeatB1 = 4

	TestJWTSecret     = "integration-jwt-secret"
	TestWebhookSecret = "whsec_integration"
)
