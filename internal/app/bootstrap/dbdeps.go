// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"github.com/dalemusser/studyhub/internal/app/store/gateway"
	"github.com/dalemusser/studyhub/internal/app/system/ratelimit"
	"github.com/dalemusser/studyhub/internal/app/system/workers"
	"go.mongodb.org/mongo-driver/mongo"
)

// DBDeps holds database/back-end dependencies for the app.
// With the memory backend the Mongo fields are nil and Store is a
// gateway.Memory.
type DBDeps struct {
	StudyHubMongoClient   *mongo.Client
	StudyHubMongoDatabase *mongo.Database

	Store gateway.Gateway

	// MembershipLimiter throttles join/leave per user. LimiterSweep drops its
	// idle buckets; Startup starts it and Shutdown stops it.
	MembershipLimiter *ratelimit.Limiter
	LimiterSweep      *workers.LimiterSweep
}
