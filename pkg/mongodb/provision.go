package mongodb

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Schema validators registered against the collections. The request layer
// performs its own validation before any document reaches storage, so these
// constraints are a backstop, not the primary gate. The status enums here are
// the only place the categorical value sets are authoritative.
var (
	enrollmentSchema = bson.M{
		"bsonType": "object",
		"required": []string{
			"firstName", "lastName", "email", "phone", "country", "timezone",
			"howHeard", "childName", "childAge", "schoolingStructure",
			"ageBand", "submittedAt",
		},
		"properties": bson.M{
			"firstName": bson.M{"bsonType": "string", "minLength": 2, "maxLength": 100},
			"lastName":  bson.M{"bsonType": "string", "minLength": 2, "maxLength": 100},
			"email":     bson.M{"bsonType": "string", "pattern": `^[^\s@]+@[^\s@]+\.[^\s@]+$`},
			"phone":     bson.M{"bsonType": "string", "minLength": 10, "maxLength": 20},
			"country":   bson.M{"bsonType": "string", "minLength": 2, "maxLength": 100},
			"timezone":  bson.M{"bsonType": "string", "minLength": 2, "maxLength": 100},
			"childName": bson.M{"bsonType": "string", "minLength": 2, "maxLength": 100},
			"childAge":  bson.M{"bsonType": "int", "minimum": 6, "maximum": 16},
			"submittedAt": bson.M{"bsonType": "date"},
			"status": bson.M{
				"bsonType": "string",
				"enum":     []string{"pending", "reviewed", "accepted", "rejected"},
			},
		},
	}

	waitingListSchema = bson.M{
		"bsonType": "object",
		"required": []string{
			"firstName", "lastName", "email", "phone", "childName", "childAge",
			"ageBand", "submittedAt",
		},
		"properties": bson.M{
			"firstName": bson.M{"bsonType": "string", "minLength": 2, "maxLength": 100},
			"lastName":  bson.M{"bsonType": "string", "minLength": 2, "maxLength": 100},
			"email":     bson.M{"bsonType": "string", "pattern": `^[^\s@]+@[^\s@]+\.[^\s@]+$`},
			"phone":     bson.M{"bsonType": "string", "minLength": 10, "maxLength": 20},
			"childName": bson.M{"bsonType": "string", "minLength": 2, "maxLength": 100},
			"childAge":  bson.M{"bsonType": "int", "minimum": 6, "maximum": 16},
			"ageBand":   bson.M{"bsonType": "string", "enum": []string{"6-8", "9-12", "13-16"}},
			"submittedAt": bson.M{"bsonType": "date"},
			"status": bson.M{
				"bsonType": "string",
				"enum":     []string{"pending", "contacted", "enrolled"},
			},
		},
	}
)

// ProvisionWarning records a non-fatal provisioning failure for one
// collection. Callers surface these as warnings in the logs.
type ProvisionWarning struct {
	Collection string
	Err        error
}

// EnsureSchemas registers the $jsonSchema validators, creating the
// collections if they do not exist yet. Failures are collected per
// collection rather than aborting the run: validators are an optimization,
// not a correctness requirement.
func (c *Client) EnsureSchemas(ctx context.Context) []ProvisionWarning {
	var warnings []ProvisionWarning
	schemas := map[string]bson.M{
		EnrollmentsCollection: enrollmentSchema,
		WaitingListCollection: waitingListSchema,
	}

	for name, schema := range schemas {
		if err := c.ensureSchema(ctx, name, schema); err != nil {
			warnings = append(warnings, ProvisionWarning{Collection: name, Err: err})
		}
	}
	return warnings
}

func (c *Client) ensureSchema(ctx context.Context, name string, schema bson.M) error {
	opCtx, cancel := c.Context(ctx)
	defer cancel()

	validator := bson.M{"$jsonSchema": schema}

	err := c.Database().RunCommand(opCtx, bson.D{
		{Key: "collMod", Value: name},
		{Key: "validator", Value: validator},
		{Key: "validationLevel", Value: "moderate"},
		{Key: "validationAction", Value: "error"},
	}).Err()
	if err == nil {
		return nil
	}

	// collMod fails on a collection that does not exist yet; create it with
	// the validator attached instead.
	if isNamespaceNotFound(err) {
		createCtx, createCancel := c.Context(ctx)
		defer createCancel()
		createErr := c.Database().CreateCollection(createCtx, name,
			options.CreateCollection().
				SetValidator(validator).
				SetValidationLevel("moderate").
				SetValidationAction("error"))
		if createErr == nil {
			return nil
		}
		return fmt.Errorf("create collection with validator: %w", createErr)
	}

	return fmt.Errorf("collMod validator: %w", err)
}

func isNamespaceNotFound(err error) bool {
	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) {
		return cmdErr.Code == 26 || cmdErr.Name == "NamespaceNotFound"
	}
	return strings.Contains(err.Error(), "NamespaceNotFound")
}

// EnsureIndexes creates the unique email index per collection (the
// authoritative duplicate-email guard, closing the check-then-insert race)
// and the submittedAt sort index backing the admin listings. Index creation
// is idempotent on the server side.
func (c *Client) EnsureIndexes(ctx context.Context) []ProvisionWarning {
	var warnings []ProvisionWarning

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "submittedAt", Value: -1}},
		},
	}

	for _, coll := range []*mongo.Collection{c.Enrollments(), c.WaitingList()} {
		opCtx, cancel := c.Context(ctx)
		_, err := coll.Indexes().CreateMany(opCtx, indexes)
		cancel()
		if err != nil {
			warnings = append(warnings, ProvisionWarning{Collection: coll.Name(), Err: err})
		}
	}
	return warnings
}
