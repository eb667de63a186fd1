package controllers

import (
	"bufio"
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"

	"github.com/jkimani/PairMatch/app/repository"
	"github.com/jkimani/PairMatch/internal/pkg/notifications"
)

// HandleNotificationsList returns the member's notification feed plus the
// unread counter.
func HandleNotificationsList(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return jsonError(c, fiber.StatusUnauthorized, "login required")
	}

	page, pageSize := pagination(c)
	repos := repository.GetGlobalRepositories()
	items, err := repos.Notification.GetByUserID(user.ID, (page-1)*pageSize, pageSize)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "notifications unavailable")
	}
	unread, err := repos.Notification.CountUnread(user.ID)
	if err != nil {
		unread = 0
	}

	return c.JSON(fiber.Map{
		"notifications": items,
		"unread":        unread,
		"page":          page,
	})
}

// HandleNotificationMarkRead marks one notification as read.
func HandleNotificationMarkRead(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return jsonError(c, fiber.StatusUnauthorized, "login required")
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid notification id")
	}

	repos := repository.GetGlobalRepositories()
	n, err := repos.Notification.GetByID(id)
	if err != nil || n == nil || n.UserID != user.ID {
		return jsonError(c, fiber.StatusNotFound, "notification not found")
	}
	if err := repos.Notification.MarkRead(n.ID); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "update failed")
	}
	return c.JSON(fiber.Map{"message": "marked as read"})
}

// HandleNotificationsMarkAllRead clears the unread counter.
func HandleNotificationsMarkAllRead(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return jsonError(c, fiber.StatusUnauthorized, "login required")
	}
	if err := repository.GetGlobalRepositories().Notification.MarkAllRead(user.ID); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "update failed")
	}
	return c.JSON(fiber.Map{"message": "all notifications marked as read"})
}

// HandleNotificationsStream pushes new notifications over server-sent events.
// The subscription rides on the per-user redis channel; a heartbeat comment
// every 30s keeps proxies from closing the idle connection.
func HandleNotificationsStream(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return jsonError(c, fiber.StatusUnauthorized, "login required")
	}

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")
	c.Set("X-Accel-Buffering", "no")

	userID := user.ID
	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		events, unsubscribe := notifications.Subscribe(ctx, userID)
		defer unsubscribe()

		heartbeat := time.NewTicker(30 * time.Second)
		defer heartbeat.Stop()

		for {
			select {
			case msg, ok := <-events:
				if !ok {
					return
				}
				fmt.Fprintf(w, "event: notification\ndata: %s\n\n", msg)
			case <-heartbeat.C:
				fmt.Fprint(w, ": ping\n\n")
			}
			if err := w.Flush(); err != nil {
				return
			}
		}
	}))

	return nil
}
