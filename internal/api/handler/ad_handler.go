package handler

import (
	"strconv"

	"courtyard/internal/api/dto"
	"courtyard/internal/model"
	"courtyard/internal/pkg/minio"
	"courtyard/internal/pkg/response"
	"courtyard/internal/pkg/util"
	"courtyard/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/copier"
)

type AdHandler struct {
	adSvc *service.AdService
}

func NewAdHandler(adSvc *service.AdService) *AdHandler {
	return &AdHandler{adSvc: adSvc}
}

func adID(c *gin.Context) (uint64, error) {
	return strconv.ParseUint(c.Param("ad_id"), 10, 64)
}

func (s *AdHandler) toView(c *gin.Context, ad *model.Ad) dto.AdView {
	var view dto.AdView
	_ = copier.Copy(&view, ad)
	view.PostedAgo = util.PostedDays(ad.CreatedAt)

	images, err := s.adSvc.GetAdImages(c.Request.Context(), ad.ID)
	if err == nil {
		for _, img := range images {
			imageView := dto.AdImageView{
				ID:       img.ID,
				ImageURL: minio.GetPublicURL(img.ImagePath),
			}
			if img.ThumbPath != "" {
				imageView.ThumbURL = minio.GetPublicURL(img.ThumbPath)
			}
			view.Images = append(view.Images, imageView)
		}
	}
	return view
}

func (s *AdHandler) toViews(c *gin.Context, ads []*model.Ad) []dto.AdView {
	views := make([]dto.AdView, 0, len(ads))
	for _, ad := range ads {
		views = append(views, s.toView(c, ad))
	}
	return views
}

func (s *AdHandler) Create(c *gin.Context) {
	var createDTO dto.CreateAdDTO
	if err := c.ShouldBind(&createDTO); err != nil {
		response.Error(c, err)
		return
	}

	ad := &model.Ad{
		Title:         createDTO.Title,
		Description:   createDTO.Description,
		Category:      createDTO.Category,
		AdType:        createDTO.AdType,
		Price:         createDTO.Price,
		Negotiable:    createDTO.Negotiable,
		Condition:     createDTO.Condition,
		AvailableFrom: createDTO.AvailableFrom,
		PublishFlatNo: createDTO.PublishFlatNo,
		ApartmentID:   createDTO.ApartmentID,
		PostedBy:      currentUserID(c),
	}
	created, err := s.adSvc.CreateAd(c.Request.Context(), ad)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, s.toView(c, created))
}

func (s *AdHandler) Get(c *gin.Context) {
	id, err := adID(c)
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	ad, err := s.adSvc.GetAd(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, s.toView(c, ad))
}

func (s *AdHandler) ListByApartment(c *gin.Context) {
	apartmentID, err := strconv.ParseUint(c.Param("apartment_id"), 10, 64)
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	ads, err := s.adSvc.ListByApartment(c.Request.Context(), apartmentID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, s.toViews(c, ads))
}

func (s *AdHandler) ListMine(c *gin.Context) {
	ads, err := s.adSvc.ListByUser(c.Request.Context(), currentUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, s.toViews(c, ads))
}

func (s *AdHandler) Update(c *gin.Context) {
	id, err := adID(c)
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	var updateDTO dto.UpdateAdDTO
	if err := c.ShouldBind(&updateDTO); err != nil {
		response.Error(c, err)
		return
	}

	updates := map[string]interface{}{}
	if updateDTO.Title != nil {
		updates["title"] = *updateDTO.Title
	}
	if updateDTO.Description != nil {
		updates["description"] = *updateDTO.Description
	}
	if updateDTO.Category != nil {
		updates["category"] = *updateDTO.Category
	}
	if updateDTO.Price != nil {
		updates["price"] = *updateDTO.Price
	}
	if updateDTO.Negotiable != nil {
		updates["negotiable"] = *updateDTO.Negotiable
	}
	if updateDTO.Condition != nil {
		updates["condition"] = *updateDTO.Condition
	}
	if updateDTO.AvailableFrom != nil {
		updates["available_from"] = *updateDTO.AvailableFrom
	}
	if updateDTO.PublishFlatNo != nil {
		updates["publish_flat_no"] = *updateDTO.PublishFlatNo
	}
	if updateDTO.Active != nil {
		updates["active"] = *updateDTO.Active
	}

	if err := s.adSvc.UpdateAd(c.Request.Context(), id, currentUserID(c), updates); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *AdHandler) Delete(c *gin.Context) {
	id, err := adID(c)
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	if err := s.adSvc.DeleteAd(c.Request.Context(), id, currentUserID(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *AdHandler) MarkSold(c *gin.Context) {
	id, err := adID(c)
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	if err := s.adSvc.MarkSold(c.Request.Context(), id, currentUserID(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *AdHandler) Report(c *gin.Context) {
	id, err := adID(c)
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	if err := s.adSvc.ReportAd(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *AdHandler) UploadImage(c *gin.Context) {
	id, err := adID(c)
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	defer func() {
		_ = file.Close()
	}()

	image, err := s.adSvc.AttachImage(
		c.Request.Context(), id, currentUserID(c),
		file, fileHeader.Size, fileHeader.Header.Get("Content-Type"),
	)
	if err != nil {
		response.Error(c, err)
		return
	}

	imageView := dto.AdImageView{
		ID:       image.ID,
		ImageURL: minio.GetPublicURL(image.ImagePath),
	}
	if image.ThumbPath != "" {
		imageView.ThumbURL = minio.GetPublicURL(image.ThumbPath)
	}
	response.Success(c, imageView)
}
