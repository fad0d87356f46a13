package handler

import (
	"strconv"

	"courtyard/internal/api/dto"
	"courtyard/internal/model"
	"courtyard/internal/pkg/response"
	"courtyard/internal/service"

	"github.com/gin-gonic/gin"
)

type ApartmentHandler struct {
	apartmentSvc *service.ApartmentService
}

func NewApartmentHandler(apartmentSvc *service.ApartmentService) *ApartmentHandler {
	return &ApartmentHandler{apartmentSvc: apartmentSvc}
}

func (s *ApartmentHandler) List(c *gin.Context) {
	apartments, err := s.apartmentSvc.ListApartments(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, apartments)
}

func (s *ApartmentHandler) Search(c *gin.Context) {
	name := c.Query("name")
	if name == "" {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	apartments, err := s.apartmentSvc.SearchApartments(c.Request.Context(), name)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, apartments)
}

func (s *ApartmentHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("apartment_id"), 10, 64)
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	apartment, err := s.apartmentSvc.GetApartment(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, apartment)
}

func (s *ApartmentHandler) Submit(c *gin.Context) {
	var submitDTO dto.SubmitApartmentDTO
	if err := c.ShouldBind(&submitDTO); err != nil {
		response.Error(c, err)
		return
	}

	apartment := &model.Apartment{
		Name:     submitDTO.Name,
		Address1: submitDTO.Address1,
		Address2: submitDTO.Address2,
		City:     submitDTO.City,
		State:    submitDTO.State,
		Pincode:  submitDTO.Pincode,
	}
	created, err := s.apartmentSvc.SubmitApartment(c.Request.Context(), apartment)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, created)
}

// Verify flips the moderation gate. Reached through the job surface only.
func (s *ApartmentHandler) Verify(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("apartment_id"), 10, 64)
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	if err := s.apartmentSvc.VerifyApartment(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
