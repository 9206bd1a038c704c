package httpserver

import (
	"fmt"
	"net/http"
	"strconv"

	"contactbook/errs"

	"github.com/labstack/echo/v4"
)

func (s *Server) RegisterContactRoutes(g *echo.Group) {
	g.GET("", s.handleListContacts)
	g.POST("", s.handleAddContact)
	g.GET("/:id", s.handleGetContact)
	g.PUT("/:id", s.handleUpdateContact)
	g.DELETE("/:id", s.handleDeleteContact)
}

// handleListContacts godoc
// @Summary List Contacts
// @Description Get all contacts ordered by last name, then first name
// @Tags contacts
// @Produce json
// @Success 200 {array} contact.Contact
// @Failure 500 {object} APIResponse
// @Router /api/contacts [get]
func (s *Server) handleListContacts(c echo.Context) error {
	contacts, err := s.ContactService.ListContacts(c.Request().Context())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, contacts)
}

// handleGetContact godoc
// @Summary Get Contact
// @Tags contacts
// @Produce json
// @Param id path int true "Contact ID"
// @Success 200 {object} contact.Contact
// @Failure 400 {object} APIResponse
// @Failure 404 {object} APIResponse
// @Router /api/contacts/{id} [get]
func (s *Server) handleGetContact(c echo.Context) error {
	id, err := contactID(c)
	if err != nil {
		return err
	}

	ct, err := s.ContactService.GetContact(c.Request().Context(), id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, ct)
}

// handleAddContact godoc
// @Summary Create Contact
// @Description Add a new contact. Any id in the body is ignored.
// @Tags contacts
// @Accept json
// @Produce json
// @Param contact body ContactRequest true "Contact Data"
// @Success 201 {object} contact.Contact
// @Failure 400 {object} APIResponse
// @Failure 409 {object} APIResponse
// @Router /api/contacts [post]
func (s *Server) handleAddContact(c echo.Context) error {
	req, err := bindContact(c)
	if err != nil {
		return err
	}

	created, err := s.ContactService.AddContact(c.Request().Context(), req.ToContact())
	if err != nil {
		return err
	}

	c.Response().Header().Set(echo.HeaderLocation, fmt.Sprintf("/api/contacts/%d", created.ID))
	return c.JSON(http.StatusCreated, created)
}

// handleUpdateContact godoc
// @Summary Update Contact
// @Description Replace every field of a contact. The body id must match the path id.
// @Tags contacts
// @Accept json
// @Param id path int true "Contact ID"
// @Param contact body ContactRequest true "Contact Data"
// @Success 204
// @Failure 400 {object} APIResponse
// @Failure 404 {object} APIResponse
// @Failure 409 {object} APIResponse
// @Router /api/contacts/{id} [put]
func (s *Server) handleUpdateContact(c echo.Context) error {
	id, err := contactID(c)
	if err != nil {
		return err
	}
	req, err := bindContact(c)
	if err != nil {
		return err
	}

	if err := s.ContactService.UpdateContact(c.Request().Context(), id, req.ToContact()); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

// handleDeleteContact godoc
// @Summary Delete Contact
// @Tags contacts
// @Param id path int true "Contact ID"
// @Success 204
// @Failure 400 {object} APIResponse
// @Failure 404 {object} APIResponse
// @Router /api/contacts/{id} [delete]
func (s *Server) handleDeleteContact(c echo.Context) error {
	id, err := contactID(c)
	if err != nil {
		return err
	}

	if err := s.ContactService.DeleteContact(c.Request().Context(), id); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

func contactID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, errs.Errorf(errs.EINVALID, "Contact ID must be an integer.")
	}
	return id, nil
}

func bindContact(c echo.Context) (ContactRequest, error) {
	var req ContactRequest
	if err := c.Bind(&req); err != nil {
		return ContactRequest{}, errs.Errorf(errs.EINVALID, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return ContactRequest{}, err
	}
	return req, nil
}
