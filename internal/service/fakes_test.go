package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"courtyard/internal/model"
	"courtyard/internal/pkg/mongo"
	"courtyard/internal/repository"
)

// In-memory repository stand-ins. They apply column updates the same way
// the gorm layer would, so the services see consistent state transitions.

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uint64]*model.User
	next  uint64
	err   error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[uint64]*model.User{}, next: 1}
}

var _ repository.UserRepo = (*fakeUserRepo)(nil)

func (f *fakeUserRepo) GetUserById(_ context.Context, id uint64) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	if u, ok := f.users[id]; ok {
		clone := *u
		return &clone, nil
	}
	return nil, nil
}

func (f *fakeUserRepo) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	for _, u := range f.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) CreateUser(_ context.Context, user *model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	user.ID = f.next
	f.next++
	clone := *user
	f.users[user.ID] = &clone
	return nil
}

func (f *fakeUserRepo) UpdateUser(_ context.Context, id uint64, updates map[string]interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	u, ok := f.users[id]
	if !ok {
		return nil
	}
	for k, v := range updates {
		switch k {
		case "invalid_login_count":
			u.InvalidLoginCount = v.(int)
		case "hashed_password":
			u.HashedPassword = v.(string)
		case "otp":
			if v == nil {
				u.Otp = nil
			} else {
				code := v.(string)
				u.Otp = &code
			}
		case "otp_verification_time":
			if v == nil {
				u.OtpVerificationTime = nil
			} else {
				t := v.(time.Time)
				u.OtpVerificationTime = &t
			}
		case "otp_generated_count":
			u.OtpGeneratedCount = v.(int)
		case "invalid_otp_count":
			u.InvalidOtpCount = v.(int)
		case "lock_otp_send":
			u.LockOtpSend = v.(bool)
		case "otp_locked_time":
			if v == nil {
				u.OtpLockedTime = nil
			} else {
				t := v.(time.Time)
				u.OtpLockedTime = &t
			}
		case "email_verified":
			u.EmailVerified = v.(bool)
		case "email_verify_hash":
			if v == nil {
				u.EmailVerifyHash = nil
			} else {
				h := v.(string)
				u.EmailVerifyHash = &h
			}
		case "ads_posted":
			u.AdsPosted = v.(int)
		case "items_sold":
			u.ItemsSold = v.(int)
		case "name":
			u.Name = v.(string)
		}
	}
	return nil
}

func (f *fakeUserRepo) DeleteUser(_ context.Context, id uint64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.users, id)
	return nil
}

type fakeChatRepo struct {
	mu      sync.Mutex
	chats   map[string]*model.Chat
	heads   map[string]*model.ChatHistory
	saveErr error
}

func newFakeChatRepo() *fakeChatRepo {
	return &fakeChatRepo{
		chats: map[string]*model.Chat{},
		heads: map[string]*model.ChatHistory{},
	}
}

var _ repository.ChatRepo = (*fakeChatRepo)(nil)

func (f *fakeChatRepo) CreateChat(_ context.Context, chat *model.Chat) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	clone := *chat
	f.chats[chat.ChatID] = &clone
	f.heads[chat.ChatID] = &model.ChatHistory{ChatID: chat.ChatID}
	return nil
}

func (f *fakeChatRepo) GetChatByToken(_ context.Context, chatID string) (*model.Chat, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c, ok := f.chats[chatID]; ok {
		clone := *c
		return &clone, nil
	}
	return nil, nil
}

func (f *fakeChatRepo) FindChatToken(_ context.Context, adID, sellerID, buyerID uint64) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.chats {
		if c.AdID == adID && c.SellerID == sellerID && c.BuyerID == buyerID {
			return c.ChatID, nil
		}
	}
	return "", nil
}

func (f *fakeChatRepo) GetHistoryHead(_ context.Context, chatID string) (*model.ChatHistory, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if h, ok := f.heads[chatID]; ok {
		clone := *h
		return &clone, nil
	}
	return nil, nil
}

func (f *fakeChatRepo) AppendMessage(ctx context.Context, chatID string, senderID uint64, save func(ctx context.Context, seq uint64) error) (uint64, error) {
	f.mu.Lock()
	head, ok := f.heads[chatID]
	if !ok {
		f.mu.Unlock()
		return 0, ErrChatNotFound
	}
	prev := *head
	head.MaxMsgSeq++
	head.NewNotifications = true
	head.LastSenderID = senderID
	head.LastMessageAt = time.Now()
	chat := f.chats[chatID]
	chat.MarkedDelSeller = false
	chat.MarkedDelBuyer = false
	seq := head.MaxMsgSeq
	f.mu.Unlock()

	if err := save(ctx, seq); err != nil {
		// Roll back like the transaction would.
		f.mu.Lock()
		*head = prev
		f.mu.Unlock()
		return 0, err
	}
	return seq, nil
}

func (f *fakeChatRepo) AcknowledgeNotifications(_ context.Context, chatID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if h, ok := f.heads[chatID]; ok {
		h.NewNotifications = false
	}
	return nil
}

func (f *fakeChatRepo) GetUserChats(_ context.Context, userID uint64) ([]*model.Chat, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.Chat
	for _, c := range f.chats {
		if (c.SellerID == userID && !c.MarkedDelSeller) || (c.BuyerID == userID && !c.MarkedDelBuyer) {
			clone := *c
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (f *fakeChatRepo) GetUnreadChatIDs(_ context.Context, userID uint64, window time.Duration) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return nil, f.saveErr
	}
	var out []string
	cutoff := time.Now().Add(-window)
	for id, h := range f.heads {
		c := f.chats[id]
		if c.SellerID != userID && c.BuyerID != userID {
			continue
		}
		if h.NewNotifications && h.LastSenderID != userID && h.LastMessageAt.After(cutoff) {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (f *fakeChatRepo) MarkDeleted(_ context.Context, chatID string, userID uint64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.chats[chatID]
	if !ok {
		return ErrChatNotFound
	}
	if c.SellerID == userID {
		c.MarkedDelSeller = true
	}
	if c.BuyerID == userID {
		c.MarkedDelBuyer = true
	}
	return nil
}

func (f *fakeChatRepo) UpdateFlag(_ context.Context, chatID string, column string, value bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.chats[chatID]
	if !ok {
		return ErrChatNotFound
	}
	switch column {
	case "blocked_by_seller":
		c.BlockedBySeller = value
	case "blocked_by_buyer":
		c.BlockedByBuyer = value
	}
	return nil
}

type fakeMessageRepo struct {
	mu       sync.Mutex
	messages map[string][]*mongo.ChatMessage
	err      error
}

func newFakeMessageRepo() *fakeMessageRepo {
	return &fakeMessageRepo{messages: map[string][]*mongo.ChatMessage{}}
}

var _ mongo.MessageRepo = (*fakeMessageRepo)(nil)

func (f *fakeMessageRepo) SaveMessage(_ context.Context, msg *mongo.ChatMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	clone := *msg
	f.messages[msg.ChatID] = append(f.messages[msg.ChatID], &clone)
	return nil
}

func (f *fakeMessageRepo) GetHistory(_ context.Context, chatID string) ([]*mongo.ChatMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	msgs := append([]*mongo.ChatMessage(nil), f.messages[chatID]...)
	sort.Slice(msgs, func(i, j int) bool { return msgs[i].Seq < msgs[j].Seq })
	return msgs, nil
}

func (f *fakeMessageRepo) GetLastMessage(_ context.Context, chatID string) (*mongo.ChatMessage, error) {
	msgs, _ := f.GetHistory(context.Background(), chatID)
	if len(msgs) == 0 {
		return nil, nil
	}
	return msgs[len(msgs)-1], nil
}

type fakeAdRepo struct {
	mu   sync.Mutex
	ads  map[uint64]*model.Ad
	next uint64
}

func newFakeAdRepo() *fakeAdRepo {
	return &fakeAdRepo{ads: map[uint64]*model.Ad{}, next: 1}
}

var _ repository.AdRepo = (*fakeAdRepo)(nil)

func (f *fakeAdRepo) Create(_ context.Context, ad *model.Ad) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	ad.ID = f.next
	f.next++
	if ad.CreatedAt.IsZero() {
		ad.CreatedAt = time.Now()
	}
	clone := *ad
	f.ads[ad.ID] = &clone
	return nil
}

func (f *fakeAdRepo) GetById(_ context.Context, id uint64) (*model.Ad, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if ad, ok := f.ads[id]; ok {
		clone := *ad
		return &clone, nil
	}
	return nil, nil
}

func (f *fakeAdRepo) GetByApartment(_ context.Context, apartmentID uint64) ([]*model.Ad, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.Ad
	for _, ad := range f.ads {
		if ad.ApartmentID == apartmentID && ad.Active {
			clone := *ad
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (f *fakeAdRepo) GetByUser(_ context.Context, userID uint64) ([]*model.Ad, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.Ad
	for _, ad := range f.ads {
		if ad.PostedBy == userID {
			clone := *ad
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (f *fakeAdRepo) ListActive(_ context.Context) ([]*model.Ad, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.Ad
	for _, ad := range f.ads {
		if ad.Active {
			clone := *ad
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (f *fakeAdRepo) Update(_ context.Context, id uint64, updates map[string]interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	ad, ok := f.ads[id]
	if !ok {
		return ErrAdNotFound
	}
	for k, v := range updates {
		switch k {
		case "sold":
			ad.Sold = v.(bool)
		case "active":
			ad.Active = v.(bool)
		case "title":
			ad.Title = v.(string)
		case "price":
			ad.Price = v.(float64)
		}
	}
	return nil
}

func (f *fakeAdRepo) Delete(_ context.Context, id uint64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.ads, id)
	return nil
}

func (f *fakeAdRepo) DeactivateExpired(_ context.Context, cutoff time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for _, ad := range f.ads {
		if ad.Active && ad.CreatedAt.Before(cutoff) {
			ad.Active = false
			count++
		}
	}
	return count, nil
}

func (f *fakeAdRepo) AddImage(_ context.Context, _ *model.AdImage) error { return nil }

func (f *fakeAdRepo) GetImages(_ context.Context, _ uint64) ([]*model.AdImage, error) {
	return nil, nil
}

func (f *fakeAdRepo) DeleteImages(_ context.Context, _ uint64) error { return nil }

type fakeApartmentRepo struct {
	mu         sync.Mutex
	apartments map[uint64]*model.Apartment
	next       uint64
}

func newFakeApartmentRepo() *fakeApartmentRepo {
	return &fakeApartmentRepo{apartments: map[uint64]*model.Apartment{}, next: 1}
}

var _ repository.ApartmentRepo = (*fakeApartmentRepo)(nil)

func (f *fakeApartmentRepo) GetAll(_ context.Context) ([]*model.Apartment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.Apartment
	for _, a := range f.apartments {
		if a.Verified {
			clone := *a
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (f *fakeApartmentRepo) GetById(_ context.Context, id uint64) (*model.Apartment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if a, ok := f.apartments[id]; ok {
		clone := *a
		return &clone, nil
	}
	return nil, nil
}

func (f *fakeApartmentRepo) SearchByName(_ context.Context, name string) ([]*model.Apartment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.Apartment
	for _, a := range f.apartments {
		if a.Verified && strings.Contains(strings.ToLower(a.Name), strings.ToLower(name)) {
			clone := *a
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (f *fakeApartmentRepo) Create(_ context.Context, apartment *model.Apartment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	apartment.ID = f.next
	f.next++
	clone := *apartment
	f.apartments[apartment.ID] = &clone
	return nil
}

func (f *fakeApartmentRepo) SetVerified(_ context.Context, id uint64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if a, ok := f.apartments[id]; ok {
		a.Verified = true
	}
	return nil
}

type fakeMetricRepo struct {
	mu     sync.Mutex
	counts map[string]int
}

func newFakeMetricRepo() *fakeMetricRepo {
	return &fakeMetricRepo{counts: map[string]int{}}
}

var _ repository.MetricRepo = (*fakeMetricRepo)(nil)

func (f *fakeMetricRepo) IncrementCounter(_ context.Context, column string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.counts[column]++
	return nil
}

func (f *fakeMetricRepo) EnsureDate(_ context.Context) error {
	return nil
}

func (f *fakeMetricRepo) GetByDate(_ context.Context, _ time.Time) (*model.Metric, error) {
	return nil, nil
}

func (f *fakeMetricRepo) GetRange(_ context.Context, _, _ time.Time) ([]*model.Metric, error) {
	return nil, nil
}

type fakeMailer struct {
	mu            sync.Mutex
	verifications []string
	passwordMails []string
}

var _ EmailSender = (*fakeMailer)(nil)

func (f *fakeMailer) SendVerificationEmail(_ context.Context, to, _, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.verifications = append(f.verifications, to+"|"+token)
	return nil
}

func (f *fakeMailer) SendPasswordChangedEmail(_ context.Context, to, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.passwordMails = append(f.passwordMails, to)
	return nil
}
