package mongo

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/pmppiyas/GSRS-Blood-Server/internal/core/domain"
)

func TestSearchFilter_EmptyTermMatchesAll(t *testing.T) {
	if f := searchFilter(""); len(f) != 0 {
		t.Fatalf("expected empty filter, got %v", f)
	}
}

func TestSearchFilter_NameOrEmailCaseInsensitive(t *testing.T) {
	f := searchFilter("a@x.com")

	or, ok := f["$or"].(bson.A)
	if !ok || len(or) != 2 {
		t.Fatalf("expected $or with two clauses, got %v", f)
	}

	for i, field := range []string{"name", "email"} {
		clause, ok := or[i].(bson.M)
		if !ok {
			t.Fatalf("clause %d has unexpected type %T", i, or[i])
		}
		re, ok := clause[field].(primitive.Regex)
		if !ok {
			t.Fatalf("clause %d: expected regex on %q, got %v", i, field, clause)
		}
		if re.Options != "i" {
			t.Errorf("clause %d: expected case-insensitive option, got %q", i, re.Options)
		}
		if re.Pattern != `a@x\.com` {
			t.Errorf("clause %d: metacharacters must be escaped, got %q", i, re.Pattern)
		}
	}
}

func TestClassify(t *testing.T) {
	dup := mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000, Message: "E11000 duplicate key"}}}

	if err := classify("insert user", dup); !errors.Is(err, domain.ErrUserExists) {
		t.Errorf("duplicate key: expected ErrUserExists, got %v", err)
	}
	if err := classify("find user", context.DeadlineExceeded); !errors.Is(err, domain.ErrDatabaseUnavailable) {
		t.Errorf("deadline: expected ErrDatabaseUnavailable, got %v", err)
	}
	if err := classify("find user", mongo.ErrClientDisconnected); !errors.Is(err, domain.ErrDatabaseUnavailable) {
		t.Errorf("disconnected: expected ErrDatabaseUnavailable, got %v", err)
	}

	other := fmt.Errorf("bad query")
	err := classify("search users", other)
	if !errors.Is(err, other) || errors.Is(err, domain.ErrDatabaseUnavailable) {
		t.Errorf("unexpected classification for generic error: %v", err)
	}
}

func TestUserDocument_ToDomain(t *testing.T) {
	id := primitive.NewObjectID()
	created := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	d := userDocument{ID: id, Name: "A", Email: "a@x.com", BloodGroup: "O+", CreatedAt: created}

	u := d.toDomain()
	if u.ID != id.Hex() {
		t.Errorf("expected id %s, got %s", id.Hex(), u.ID)
	}
	if !u.CreatedAt.Equal(created) {
		t.Errorf("expected createdAt %v, got %v", created, u.CreatedAt)
	}

	if (userDocument{}).toDomain().ID != "" {
		t.Error("zero ObjectID must map to an empty id")
	}
}

func TestToDocument_LeavesIDToDatabase(t *testing.T) {
	doc := toDocument(&domain.User{ID: "ignored", Email: "a@x.com"})
	if !doc.ID.IsZero() {
		t.Error("the application must not assign document ids")
	}
}
