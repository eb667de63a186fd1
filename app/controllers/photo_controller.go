package controllers

import (
	"context"
	"io"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/jkimani/PairMatch/app/models"
	"github.com/jkimani/PairMatch/app/repository"
	"github.com/jkimani/PairMatch/internal/pkg/photoprocessor"
	"github.com/jkimani/PairMatch/internal/pkg/photostore"
	"github.com/jkimani/PairMatch/internal/pkg/upload"
	"github.com/jkimani/PairMatch/internal/pkg/usercontext"
)

const maxPhotoUploadBytes = 10 << 20 // 10 MB

// HandlePhotoUpload accepts one profile photo, derives the blurred preview
// and thumbnail, stores all three variants and records the photo.
func HandlePhotoUpload(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return jsonError(c, fiber.StatusUnauthorized, "login required")
	}

	fileHeader, err := c.FormFile("photo")
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "missing photo file")
	}
	if fileHeader.Size > maxPhotoUploadBytes {
		return jsonError(c, fiber.StatusRequestEntityTooLarge, "photo exceeds the 10 MB limit")
	}

	f, err := fileHeader.Open()
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "unreadable photo file")
	}
	defer f.Close()
	raw, err := io.ReadAll(f)
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "unreadable photo file")
	}

	if _, err := upload.ValidateImageBySniff(fileHeader.Filename, raw); err != nil {
		return jsonError(c, fiber.StatusUnprocessableEntity, err.Error())
	}

	result, err := photoprocessor.Process(raw)
	if err != nil {
		return jsonError(c, fiber.StatusUnprocessableEntity, "unsupported image format")
	}

	store, err := photostore.GetClient()
	if err != nil {
		log.WithError(err).Error("photo storage unavailable")
		return jsonError(c, fiber.StatusServiceUnavailable, "photo storage unavailable")
	}

	photoUUID := uuid.New().String()
	cfg := store.Config()
	photo := &models.MemberPhoto{
		UUID:       photoUUID,
		UserID:     user.ID,
		ObjectKey:  cfg.ObjectKey(user.ID, photoUUID, "original"),
		BlurredKey: cfg.ObjectKey(user.ID, photoUUID, "blurred"),
		ThumbKey:   cfg.ObjectKey(user.ID, photoUUID, "thumb"),
		FileSize:   fileHeader.Size,
		Width:      result.Width,
		Height:     result.Height,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	variants := []struct {
		key  string
		data []byte
	}{
		{photo.ObjectKey, result.Original},
		{photo.BlurredKey, result.Blurred},
		{photo.ThumbKey, result.Thumb},
	}
	for _, v := range variants {
		if err := store.Upload(ctx, v.key, v.data, "image/jpeg"); err != nil {
			log.WithError(err).WithField("key", v.key).Error("photo upload failed")
			return jsonError(c, fiber.StatusInternalServerError, "photo upload failed")
		}
	}

	photoRepo := repository.GetGlobalRepositories().Photo
	if existing, err := photoRepo.GetByUserID(user.ID); err == nil && len(existing) == 0 {
		photo.IsPrimary = true
	}
	if err := photoRepo.Create(photo); err != nil {
		log.WithError(err).Error("photo record creation failed")
		return jsonError(c, fiber.StatusInternalServerError, "photo upload failed")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"uuid":       photo.UUID,
		"width":      photo.Width,
		"height":     photo.Height,
		"is_primary": photo.IsPrimary,
	})
}

// HandlePhotoServe streams one stored variant. The blurred preview is open to
// any logged-in member; original and thumb require the viewer entitlement.
// Owners always see their own photos.
func HandlePhotoServe(c *fiber.Ctx) error {
	photoUUID := c.Params("uuid")
	variant := c.Params("variant")

	photo, err := repository.GetGlobalRepositories().Photo.GetByUUID(photoUUID)
	if err != nil || photo == nil {
		return jsonError(c, fiber.StatusNotFound, "photo not found")
	}

	var key string
	switch variant {
	case "blurred":
		key = photo.BlurredKey
	case "original":
		key = photo.ObjectKey
	case "thumb":
		key = photo.ThumbKey
	default:
		return jsonError(c, fiber.StatusBadRequest, "unknown variant")
	}
	if key == "" {
		return jsonError(c, fiber.StatusNotFound, "variant not available")
	}

	isOwner := usercontext.GetUserID(c) == photo.UserID
	if variant != "blurred" && !isOwner && !viewerCanSeePhotos(c) {
		return jsonError(c, fiber.StatusForbidden, "an active subscription is required to view photos")
	}

	store, err := photostore.GetClient()
	if err != nil {
		return jsonError(c, fiber.StatusServiceUnavailable, "photo storage unavailable")
	}
	data, contentType, err := store.Download(c.Context(), key)
	if err != nil {
		return jsonError(c, fiber.StatusNotFound, "photo not found")
	}
	if contentType == "" {
		contentType = "image/jpeg"
	}
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderCacheControl, "private, max-age=3600")
	return c.Send(data)
}

// HandlePhotoSetPrimary marks one of the member's own photos as primary.
func HandlePhotoSetPrimary(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return jsonError(c, fiber.StatusUnauthorized, "login required")
	}

	photo, err := repository.GetGlobalRepositories().Photo.GetByUUID(c.Params("uuid"))
	if err != nil || photo == nil || photo.UserID != user.ID {
		return jsonError(c, fiber.StatusNotFound, "photo not found")
	}

	if err := repository.GetGlobalRepositories().Photo.SetPrimary(user.ID, photo.ID); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "update failed")
	}
	return c.JSON(fiber.Map{"message": "primary photo updated"})
}

// HandlePhotoDelete removes one of the member's own photos and its variants.
func HandlePhotoDelete(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return jsonError(c, fiber.StatusUnauthorized, "login required")
	}

	photoRepo := repository.GetGlobalRepositories().Photo
	photo, err := photoRepo.GetByUUID(c.Params("uuid"))
	if err != nil || photo == nil || photo.UserID != user.ID {
		return jsonError(c, fiber.StatusNotFound, "photo not found")
	}

	if store, err := photostore.GetClient(); err == nil {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		for _, key := range []string{photo.ObjectKey, photo.BlurredKey, photo.ThumbKey} {
			if key == "" {
				continue
			}
			if err := store.Delete(ctx, key); err != nil {
				log.WithError(err).WithField("key", key).Warn("photo variant delete failed")
			}
		}
	}

	if err := photoRepo.Delete(photo.ID); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "delete failed")
	}
	return c.JSON(fiber.Map{"message": "photo deleted"})
}
