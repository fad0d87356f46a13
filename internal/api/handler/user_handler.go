package handler

import (
	log "log/slog"
	"path"
	"strings"

	"courtyard/internal/api/dto"
	"courtyard/internal/model"
	"courtyard/internal/pkg/minio"
	"courtyard/internal/pkg/response"
	"courtyard/internal/pkg/util"
	"courtyard/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type UserHandler struct {
	userSvc *service.UserService
	otpSvc  *service.OtpService
}

func NewUserHandler(userSvc *service.UserService, otpSvc *service.OtpService) *UserHandler {
	return &UserHandler{
		userSvc: userSvc,
		otpSvc:  otpSvc,
	}
}

func toUserView(user *model.User) dto.UserView {
	var view dto.UserView
	_ = copier.Copy(&view, user)
	return view
}

func (s *UserHandler) Register(c *gin.Context) {
	var registerDTO dto.RegisterDTO
	if err := c.ShouldBind(&registerDTO); err != nil {
		response.Error(c, err)
		return
	}
	if err := util.ValidateDTO(&registerDTO); err != nil {
		response.Error(c, err)
		return
	}

	user := &model.User{
		Name:        registerDTO.Name,
		Email:       registerDTO.Email,
		Mobile:      registerDTO.Mobile,
		ApartmentID: registerDTO.ApartmentID,
		ApartmentNo: registerDTO.ApartmentNo,
	}
	created, err := s.userSvc.Register(c.Request.Context(), user, registerDTO.Password)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, toUserView(created))
}

func (s *UserHandler) Login(c *gin.Context) {
	var loginDTO dto.CredentialDTO
	if err := c.ShouldBind(&loginDTO); err != nil {
		response.Error(c, err)
		return
	}

	token, user, err := s.userSvc.Authenticate(c.Request.Context(), loginDTO.Email, loginDTO.Password)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.LoginResponse{
		Token:     token,
		ExpiresIn: int64(s.userSvc.TokenExpiry().Seconds()),
		User:      toUserView(user),
	})
}

func (s *UserHandler) Logout(c *gin.Context) {
	authHeader := c.GetHeader("Authorization")
	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	if err := s.userSvc.Logout(c.Request.Context(), tokenString); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *UserHandler) GetProfile(c *gin.Context) {
	user, err := s.userSvc.GetProfile(c.Request.Context(), currentUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, toUserView(user))
}

func (s *UserHandler) UpdateProfile(c *gin.Context) {
	var updateDTO dto.UpdateProfileDTO
	if err := c.ShouldBind(&updateDTO); err != nil {
		response.Error(c, err)
		return
	}

	updates := map[string]interface{}{}
	if updateDTO.Name != nil {
		updates["name"] = *updateDTO.Name
	}
	if updateDTO.Mobile != nil {
		updates["mobile"] = *updateDTO.Mobile
	}
	if updateDTO.ApartmentNo != nil {
		updates["apartment_no"] = *updateDTO.ApartmentNo
	}
	if updateDTO.MailSubscribed != nil {
		updates["mail_subscribed"] = *updateDTO.MailSubscribed
	}

	if err := s.userSvc.UpdateProfile(c.Request.Context(), currentUserID(c), updates); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *UserHandler) ChangePassword(c *gin.Context) {
	var pwDTO dto.ChangePasswordDTO
	if err := c.ShouldBind(&pwDTO); err != nil {
		response.Error(c, err)
		return
	}
	if err := s.userSvc.ChangePassword(c.Request.Context(), currentUserID(c), pwDTO.CurrentPassword, pwDTO.NewPassword); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// RequestOtp starts the forgot-password flow.
func (s *UserHandler) RequestOtp(c *gin.Context) {
	var otpDTO dto.OtpRequestDTO
	if err := c.ShouldBind(&otpDTO); err != nil {
		response.Error(c, err)
		return
	}
	// The passcode itself only travels over SMS, never the response.
	if _, err := s.otpSvc.RequestOtp(c.Request.Context(), otpDTO.Email); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *UserHandler) VerifyOtp(c *gin.Context) {
	var otpDTO dto.OtpVerifyDTO
	if err := c.ShouldBind(&otpDTO); err != nil {
		response.Error(c, err)
		return
	}
	if err := s.otpSvc.VerifyOtp(c.Request.Context(), otpDTO.Email, otpDTO.Code); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// ResetPassword verifies the passcode and rotates the password in one
// round trip.
func (s *UserHandler) ResetPassword(c *gin.Context) {
	var resetDTO dto.ResetPasswordDTO
	if err := c.ShouldBind(&resetDTO); err != nil {
		response.Error(c, err)
		return
	}
	ctx := c.Request.Context()
	if err := s.otpSvc.VerifyOtp(ctx, resetDTO.Email, resetDTO.Code); err != nil {
		response.Error(c, err)
		return
	}
	if err := s.userSvc.SetPassword(ctx, resetDTO.Email, resetDTO.NewPassword); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *UserHandler) VerifyEmail(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	if err := s.userSvc.VerifyEmail(c.Request.Context(), token); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *UserHandler) ResendVerification(c *gin.Context) {
	if err := s.userSvc.ResendVerification(c.Request.Context(), currentUserID(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// UploadProfileImage stores the avatar in object storage and records its
// key on the profile.
func (s *UserHandler) UploadProfileImage(c *gin.Context) {
	userID := currentUserID(c)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	contentType := fileHeader.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		response.Error(c, service.ErrFileNotSupported)
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

	ctx := c.Request.Context()
	objectName := "profiles/" + uuid.NewString() + path.Ext(fileHeader.Filename)
	key, err := minio.UploadFile(ctx, objectName, file, fileHeader.Size, contentType)
	if err != nil {
		log.ErrorContext(ctx, "profile image upload failed", "user_id", userID, "err", err)
		response.Error(c, service.UnExpectedError)
		return
	}

	if err := s.userSvc.UpdateProfile(ctx, userID, map[string]interface{}{"profile_path": key}); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"url": minio.GetPublicURL(key)})
}

func (s *UserHandler) DeleteAccount(c *gin.Context) {
	if err := s.userSvc.DeleteAccount(c.Request.Context(), currentUserID(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
