package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/edgard/robornet/internal/chat"
)

type chatOpenRequest struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

type chatSendRequest struct {
	Text string `json:"text"`
}

func chatError(err error) error {
	switch {
	case errors.Is(err, chat.ErrSessionNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, chat.ErrSessionClosed), errors.Is(err, chat.ErrBusy):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	case errors.Is(err, chat.ErrEmptyMessage):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	default:
		return err
	}
}

// NewChatOpenHandler opens a chat session, re-opening a known one, and sends
// the pending message if one is supplied.
func NewChatOpenHandler(deps HandlerDeps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req chatOpenRequest
		if len(c.Body()) > 0 {
			if err := c.BodyParser(&req); err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
			}
		}
		snap, err := deps.Chat.Open(c.UserContext(), req.ID, req.Message)
		if err != nil {
			return chatError(err)
		}
		return c.JSON(snap)
	}
}

// NewChatGetHandler returns the session transcript.
func NewChatGetHandler(deps HandlerDeps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		snap, err := deps.Chat.Get(c.Params("id"))
		if err != nil {
			return chatError(err)
		}
		return c.JSON(snap)
	}
}

// NewChatSendHandler sends a visitor message and waits for the reply.
func NewChatSendHandler(deps HandlerDeps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req chatSendRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		snap, err := deps.Chat.Send(c.UserContext(), c.Params("id"), req.Text)
		if err != nil {
			return chatError(err)
		}
		return c.JSON(snap)
	}
}

// NewChatCloseHandler closes the session; a reply still in flight is
// discarded.
func NewChatCloseHandler(deps HandlerDeps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := deps.Chat.Close(c.Params("id")); err != nil {
			return chatError(err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
