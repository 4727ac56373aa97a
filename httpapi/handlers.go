package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"stylebook/gateway"
)

type registerRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// profileRequest's Image is base64 in the JSON body.
type profileRequest struct {
	DisplayName  string  `json:"displayName"`
	Styles       string  `json:"styles"`
	SalonPrice   float64 `json:"salonPrice"`
	HomePrice    float64 `json:"homePrice"`
	Availability string  `json:"availability"`
	Location     string  `json:"location"`
	Image        []byte  `json:"image"`
}

type bookingRequest struct {
	ProfileID   int64  `json:"profileId"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	ServiceKind string `json:"serviceKind"`
}

type transitionRequest struct {
	Status string `json:"status"`
}

type reviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

func (s *Server) handleRegister(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c)
		return
	}
	account, err := s.api.Register(c.Request.Context(), req.Username, req.Password, req.Role)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toAccountResponse(account))
}

func (s *Server) handleLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c)
		return
	}
	session, err := s.api.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sessionResponse{Token: session.Token, Account: toAccountResponse(session.Account)})
}

func (s *Server) handleWhoami(c *gin.Context) {
	p, err := s.api.Whoami(sessionToken(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"accountId": p.AccountID, "role": p.Role})
}

func (s *Server) handleUpsertProfile(c *gin.Context) {
	var req profileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondTooLarge(c)
			return
		}
		respondBadRequest(c)
		return
	}
	id, err := s.api.UpsertProfile(c.Request.Context(), sessionToken(c), gateway.ProfileInput{
		DisplayName:  req.DisplayName,
		Styles:       req.Styles,
		SalonPrice:   req.SalonPrice,
		HomePrice:    req.HomePrice,
		Availability: req.Availability,
		Location:     req.Location,
		Image:        req.Image,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id})
}

func (s *Server) handleMyProfile(c *gin.Context) {
	p, err := s.api.MyProfile(c.Request.Context(), sessionToken(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProfileResponse(p))
}

func (s *Server) handleListProfiles(c *gin.Context) {
	profiles, err := s.api.ListProfiles(c.Request.Context(), sessionToken(c), c.Query("location"))
	if err != nil {
		respondError(c, err)
		return
	}
	items := mapItems(profiles, toProfileResponse)
	c.JSON(http.StatusOK, gin.H{"items": items, "total": len(items)})
}

func (s *Server) handleGetProfile(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	p, err := s.api.GetProfile(c.Request.Context(), sessionToken(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProfileResponse(p))
}

func (s *Server) handleProfileBookings(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	bookings, err := s.api.ListBookingsForProfile(c.Request.Context(), sessionToken(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	items := mapItems(bookings, toBookingResponse)
	c.JSON(http.StatusOK, gin.H{"items": items, "total": len(items)})
}

func (s *Server) handleCreateBooking(c *gin.Context) {
	var req bookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c)
		return
	}
	id, err := s.api.CreateBooking(c.Request.Context(), sessionToken(c), gateway.BookingInput{
		ProfileID:   req.ProfileID,
		Date:        req.Date,
		Time:        req.Time,
		ServiceKind: req.ServiceKind,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (s *Server) handleClientBookings(c *gin.Context) {
	bookings, err := s.api.ListBookingsForClient(c.Request.Context(), sessionToken(c), 0)
	if err != nil {
		respondError(c, err)
		return
	}
	items := mapItems(bookings, toBookingResponse)
	c.JSON(http.StatusOK, gin.H{"items": items, "total": len(items)})
}

func (s *Server) handleTransition(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req transitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c)
		return
	}
	if err := s.api.TransitionStatus(c.Request.Context(), sessionToken(c), id, req.Status); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "status": req.Status})
}

func (s *Server) handleBookingHistory(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	events, err := s.api.BookingHistory(c.Request.Context(), sessionToken(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": mapItems(events, toEventResponse)})
}

func (s *Server) handleAddReview(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c)
		return
	}
	reviewID, err := s.api.AddReview(c.Request.Context(), sessionToken(c), id, req.Rating, req.Comment)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": reviewID})
}

func (s *Server) handleListReviews(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	reviews, err := s.api.ListReviews(c.Request.Context(), sessionToken(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	items := mapItems(reviews, toReviewResponse)
	c.JSON(http.StatusOK, gin.H{"items": items, "total": len(items)})
}

func (s *Server) handleAverageRating(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	avg, err := s.api.AverageRating(c.Request.Context(), sessionToken(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"profileId": id, "average": avg})
}
