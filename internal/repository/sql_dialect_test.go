package repository

import (
	"testing"
)

func TestDescNullsLastByDialect(t *testing.T) {
	if got := descNullsLastByDialect("postgres", "published_at"); got != "published_at DESC NULLS LAST" {
		t.Fatalf("postgres order mismatch, got %s", got)
	}
	want := "published_at IS NULL ASC, published_at DESC"
	if got := descNullsLastByDialect("sqlite", "published_at"); got != want {
		t.Fatalf("sqlite order mismatch, want %s got %s", want, got)
	}
}

func TestBuildLikeCondition(t *testing.T) {
	condition, argCount := buildLikeCondition(nil, []string{"title", " ", "excerpt"})
	if argCount != 2 {
		t.Fatalf("arg count want 2 got %d", argCount)
	}
	if condition != "title LIKE ? OR excerpt LIKE ?" {
		t.Fatalf("unexpected condition: %s", condition)
	}

	pgCondition, _ := buildLikeConditionByDialect("postgresql", []string{"title"})
	if pgCondition != "title ILIKE ?" {
		t.Fatalf("postgres should use ILIKE, got %s", pgCondition)
	}
}

func TestRepeatLikeArgs(t *testing.T) {
	args := repeatLikeArgs("%test%", 3)
	if len(args) != 3 {
		t.Fatalf("args len want 3 got %d", len(args))
	}
	for idx, arg := range args {
		if arg != "%test%" {
			t.Fatalf("args[%d] want %%test%% got %v", idx, arg)
		}
	}
}
