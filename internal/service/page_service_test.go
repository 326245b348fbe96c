package service

import (
	"testing"

	"github.com/newsroom-next/internal/constants"
	"github.com/newsroom-next/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPageLifecycle(t *testing.T) {
	db := setupServiceTestDB(t)
	owner := seedServiceUser(t, db, "pageowner", constants.RoleEditor)
	other := seedServiceUser(t, db, "pageother", constants.RoleEditor)
	svc := NewPageService(repository.NewPageRepository(db), nil)

	page, err := svc.Create(owner.ID, PageInput{Title: "About Us", Content: "hello"})
	require.NoError(t, err)
	assert.Equal(t, "about-us", page.Slug)
	assert.Equal(t, constants.ContentStatusDraft, page.Status)

	_, err = svc.GetBySlug("about-us", true)
	assert.ErrorIs(t, err, ErrNotFound)
	draft, err := svc.GetBySlug("about-us", false)
	require.NoError(t, err)
	assert.Equal(t, page.ID, draft.ID)

	_, err = svc.Update(other.ID, page.ID, UpdatePageInput{Status: strPtr("published")})
	assert.ErrorIs(t, err, ErrForbidden)

	page, err = svc.Update(owner.ID, page.ID, UpdatePageInput{Status: strPtr("published")})
	require.NoError(t, err)
	require.NotNil(t, page.PublishedAt)

	published, err := svc.List("")
	require.NoError(t, err)
	assert.Len(t, published, 1)

	_, err = svc.Create(owner.ID, PageInput{Title: "Contact", Content: "mail us"})
	require.NoError(t, err)
	all, err := svc.List("all")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	page, err = svc.Update(owner.ID, page.ID, UpdatePageInput{Title: strPtr("About the Team"), Status: strPtr("draft")})
	require.NoError(t, err)
	assert.Equal(t, "about-the-team", page.Slug)
	assert.Nil(t, page.PublishedAt)

	assert.ErrorIs(t, svc.Delete(other.ID, page.ID), ErrForbidden)
	require.NoError(t, svc.Delete(owner.ID, page.ID))
	_, err = svc.Get(page.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
