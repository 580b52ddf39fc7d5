package ws

import (
	"context"
	"net/http"
	"sync"

	"helpyhands-market-service/internal/domain/listing"
	"helpyhands-market-service/internal/domain/offer"
	"helpyhands-market-service/internal/domain/shared"
	"helpyhands-market-service/internal/ports/inbound"
	"helpyhands-market-service/internal/ports/outbound"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// WsHandler manages WebSocket connections and message routing
type WsHandler struct {
	clients         map[string]*WsClient // clientID -> Client
	clientsMu       sync.RWMutex
	eventChannels   map[string]chan outbound.Event // clientID -> local event channel
	channelsMu      sync.RWMutex
	upgrader        websocket.Upgrader
	identityService inbound.IdentityService
	listingService  inbound.ListingService
	offerService    inbound.OfferService
	broadcaster     outbound.Broadcaster
	logger          zerolog.Logger
}

type WsHandlerParams struct {
	Upgrader        websocket.Upgrader
	IdentityService inbound.IdentityService
	ListingService  inbound.ListingService
	OfferService    inbound.OfferService
	Broadcaster     outbound.Broadcaster
	Logger          zerolog.Logger
}

// NewHandler creates a new WebSocket handler
func NewHandler(params WsHandlerParams) *WsHandler {
	return &WsHandler{
		clients:         make(map[string]*WsClient),
		eventChannels:   make(map[string]chan outbound.Event),
		upgrader:        params.Upgrader,
		identityService: params.IdentityService,
		listingService:  params.ListingService,
		offerService:    params.OfferService,
		broadcaster:     params.Broadcaster,
		logger:          params.Logger.With().Str("component", "ws_handler").Logger(),
	}
}

// HandleWebSocket handles WebSocket connection upgrades. Connections start
// anonymous; authentication happens over the socket.
func (handler *WsHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := handler.upgrader.Upgrade(w, r, nil)
	if err != nil {
		handler.logger.Error().Err(err).Msg("Failed to upgrade WebSocket connection")
		return
	}

	client := NewClient(WsClientParams{
		Conn:    conn,
		Handler: handler,
		Logger:  handler.logger,
	})

	// Register client
	handler.registerClient(client)

	// Create local event channel for this client
	handler.createEventChannel(client.id)

	// Start client message handling
	client.Start()

	// Start listening for broadcast events for this client
	go handler.listenForClientEvents(client)

	// Wait for client to disconnect
	go func() {
		<-client.ctx.Done()
		handler.unregisterClient(client)
	}()

	handler.logger.Info().Str("client_id", client.id).Msg("WebSocket client connected")
}

// createEventChannel creates a local event channel for a client
func (handler *WsHandler) createEventChannel(clientID string) chan outbound.Event {
	handler.channelsMu.Lock()
	defer handler.channelsMu.Unlock()

	if eventChan, exists := handler.eventChannels[clientID]; exists {
		return eventChan
	}

	eventChan := make(chan outbound.Event, 100)
	handler.eventChannels[clientID] = eventChan

	handler.logger.Debug().Str("client_id", clientID).Msg("Created local event channel for client")
	return eventChan
}

func (handler *WsHandler) getEventChannel(clientID string) chan outbound.Event {
	handler.channelsMu.RLock()
	defer handler.channelsMu.RUnlock()

	return handler.eventChannels[clientID]
}

func (handler *WsHandler) removeEventChannel(clientID string) {
	handler.channelsMu.Lock()
	defer handler.channelsMu.Unlock()

	if eventChan, exists := handler.eventChannels[clientID]; exists {
		close(eventChan)
		delete(handler.eventChannels, clientID)
		handler.logger.Debug().Str("client_id", clientID).Msg("Removed local event channel for client")
	}
}

func (handler *WsHandler) registerClient(client *WsClient) {
	handler.clientsMu.Lock()
	defer handler.clientsMu.Unlock()
	handler.clients[client.id] = client
	handler.logger.Debug().Str("client_id", client.id).Int("total_clients", len(handler.clients)).Msg("Client registered")
}

func (handler *WsHandler) unregisterClient(client *WsClient) {
	handler.clientsMu.Lock()
	defer handler.clientsMu.Unlock()

	// Remove client from registry
	delete(handler.clients, client.id)

	// Stop the client
	client.Stop()

	// Remove local event channel
	handler.removeEventChannel(client.id)

	handler.logger.Info().Str("client_id", client.id).Int("total_clients", len(handler.clients)).Msg("WebSocket client disconnected")
}

// listenForClientEvents forwards broadcast events to the WebSocket
func (handler *WsHandler) listenForClientEvents(client *WsClient) {
	eventChan := handler.getEventChannel(client.id)
	if eventChan == nil {
		handler.logger.Error().Str("client_id", client.id).Msg("No event channel found for client - this should not happen")
		return
	}

	handler.logger.Debug().Str("client_id", client.id).Msg("Event listener started for client")

	for {
		select {
		case event := <-eventChan:
			wsMessage := handler.convertEventToMessage(event)

			if err := client.Send(wsMessage); err != nil {
				handler.logger.Error().
					Err(err).Str("client_id", client.id).Msg("Failed to send event to WebSocket client")
			} else {
				handler.logger.Debug().Str("client_id", client.id).Str("event_type", string(event.Type)).
					Msg("Event delivered to WebSocket client")
			}

		case <-client.ctx.Done():
			handler.logger.Debug().Str("client_id", client.id).Msg("Client disconnected, stopping event listener")
			return
		}
	}
}

func (handler *WsHandler) HandleClientMessage(client *WsClient, msg *ClientMessage) error {
	switch msg.Type {
	case MessageTypeSignUp:
		return handler.handleSignUp(client, msg)

	case MessageTypeSignIn:
		return handler.handleSignIn(client, msg)

	case MessageTypeRequestOtp:
		return handler.handleRequestOtp(client, msg)

	case MessageTypeVerifyOtp:
		return handler.handleVerifyOtp(client, msg)

	case MessageTypeConfirmEmail:
		return handler.handleConfirmEmail(client, msg)

	case MessageTypeRefresh:
		return handler.handleRefresh(client, msg)

	case MessageTypeSignOut:
		return handler.handleSignOut(client, msg)

	case MessageTypeCreateListing:
		return handler.handleCreateListing(client, msg)

	case MessageTypeGetListing:
		return handler.handleGetListing(client, msg)

	case MessageTypeListListings:
		return handler.handleListListings(client, msg)

	case MessageTypeListMine:
		return handler.handleListMine(client, msg)

	case MessageTypeMarkSold:
		return handler.handleMarkSold(client, msg)

	case MessageTypeDeleteListing:
		return handler.handleDeleteListing(client, msg)

	case MessageTypeSubmitOffer:
		return handler.handleSubmitOffer(client, msg)

	case MessageTypeListOffers:
		return handler.handleListOffers(client, msg)

	case MessageTypeListMyOffers:
		return handler.handleListMyOffers(client, msg)

	case MessageTypeRespondOffer:
		return handler.handleRespondOffer(client, msg)

	case MessageTypeSubscribe:
		return handler.handleSubscribe(client, msg)

	case MessageTypeUnsubscribe:
		return handler.handleUnsubscribe(client, msg)

	default:
		handler.logger.Warn().Str("client_id", client.id).Str("message_type", string(msg.Type)).Msg("Unknown message type from client")
		return shared.ErrUnknownMessageType
	}
}

func (handler *WsHandler) convertEventToMessage(event outbound.Event) *ServerMessage {
	switch event.Type {
	case outbound.EventTypeOfferSubmitted:
		return &ServerMessage{
			Type:      MessageTypeOfferReceived,
			Data:      event.Data,
			Timestamp: event.Timestamp,
		}
	case outbound.EventTypeOfferResolved:
		return &ServerMessage{
			Type:      MessageTypeOfferUpdate,
			Data:      event.Data,
			Timestamp: event.Timestamp,
		}
	case outbound.EventTypeListingSold:
		return &ServerMessage{
			Type:      MessageTypeListingUpdate,
			Data:      event.Data,
			Timestamp: event.Timestamp,
		}
	default:
		return &ServerMessage{
			Type:      MessageTypeSessionUpdate,
			Data:      event.Data,
			Timestamp: event.Timestamp,
		}
	}
}

// GetConnectedClients returns the number of connected clients
func (handler *WsHandler) GetConnectedClients() int {
	handler.clientsMu.RLock()
	defer handler.clientsMu.RUnlock()
	return len(handler.clients)
}

func (handler *WsHandler) handleSignUp(client *WsClient, msg *ClientMessage) error {
	ctx := context.Background()

	req := inbound.SignUpRequest{
		Email:    stringField(msg.Data, "email"),
		Password: stringField(msg.Data, "password"),
		Username: stringField(msg.Data, "username"),
	}

	p, err := handler.identityService.SignUp(ctx, req)
	if err != nil {
		return client.Send(NewErrorMessage(err.Error(), nil))
	}

	response := NewServerMessage(MessageTypeSessionUpdate)
	response.Data["status"] = "pending_confirmation"
	response.Data["principal_id"] = p.ID

	handler.logger.Info().Str("client_id", client.id).Str("principal_id", p.ID.String()).Msg("Client signed up")
	return client.Send(response)
}

func (handler *WsHandler) handleSignIn(client *WsClient, msg *ClientMessage) error {
	ctx := context.Background()

	req := inbound.SignInRequest{
		Identifier: stringField(msg.Data, "identifier"),
		Password:   stringField(msg.Data, "password"),
	}

	result, err := handler.identityService.SignIn(ctx, req)
	if err != nil {
		return client.Send(NewErrorMessage(err.Error(), nil))
	}

	if result.OtpRequired {
		response := NewServerMessage(MessageTypeSessionUpdate)
		response.Data["status"] = "otp_required"
		response.Data["phone"] = result.Phone
		return client.Send(response)
	}

	return handler.completeSignIn(client, result.Auth)
}

func (handler *WsHandler) handleRequestOtp(client *WsClient, msg *ClientMessage) error {
	ctx := context.Background()

	phone := stringField(msg.Data, "phone")
	if err := handler.identityService.RequestOtp(ctx, phone); err != nil {
		return client.Send(NewErrorMessage(err.Error(), nil))
	}

	response := NewServerMessage(MessageTypeSessionUpdate)
	response.Data["status"] = "otp_sent"
	response.Data["phone"] = phone
	return client.Send(response)
}

func (handler *WsHandler) handleVerifyOtp(client *WsClient, msg *ClientMessage) error {
	ctx := context.Background()

	req := inbound.VerifyOtpRequest{
		Phone:    stringField(msg.Data, "phone"),
		Code:     stringField(msg.Data, "code"),
		Username: stringField(msg.Data, "username"),
	}

	auth, err := handler.identityService.VerifyOtp(ctx, req)
	if err != nil {
		return client.Send(NewErrorMessage(err.Error(), nil))
	}

	return handler.completeSignIn(client, auth)
}

func (handler *WsHandler) handleConfirmEmail(client *WsClient, msg *ClientMessage) error {
	ctx := context.Background()

	principalID, err := uuid.Parse(stringField(msg.Data, "principal_id"))
	if err != nil {
		return client.Send(NewErrorMessage("invalid principal_id format", nil))
	}

	if err := handler.identityService.ConfirmEmail(ctx, principalID); err != nil {
		return client.Send(NewErrorMessage(err.Error(), nil))
	}

	response := NewServerMessage(MessageTypeSessionUpdate)
	response.Data["status"] = "email_confirmed"
	return client.Send(response)
}

func (handler *WsHandler) handleRefresh(client *WsClient, msg *ClientMessage) error {
	ctx := context.Background()

	auth, err := handler.identityService.Refresh(ctx, stringField(msg.Data, "refresh_token"))
	if err != nil {
		return client.Send(NewErrorMessage(err.Error(), nil))
	}

	client.BindSession(auth.Session)

	response := NewServerMessage(MessageTypeSessionUpdate)
	response.Data["status"] = "refreshed"
	response.Data["access_token"] = auth.AccessToken
	response.Data["expires_in"] = auth.ExpiresIn
	return client.Send(response)
}

func (handler *WsHandler) handleSignOut(client *WsClient, msg *ClientMessage) error {
	ctx := context.Background()

	sess := client.Session()
	if sess == nil {
		return shared.ErrClientNotSignedIn
	}

	if err := handler.identityService.SignOut(ctx, sess.ID); err != nil {
		return client.Send(NewErrorMessage(err.Error(), nil))
	}

	// Drop the broadcast subscription along with the session
	if handler.broadcaster.IsSubscribed(ctx, sess.PrincipalID, client.id) {
		if err := handler.broadcaster.Unsubscribe(ctx, sess.PrincipalID, client.id); err != nil {
			handler.logger.Error().Err(err).Str("client_id", client.id).Msg("Failed to unsubscribe on sign-out")
		}
	}
	client.ClearSession()

	response := NewServerMessage(MessageTypeSessionUpdate)
	response.Data["status"] = "signed_out"

	handler.logger.Info().Str("client_id", client.id).Msg("Client signed out")
	return client.Send(response)
}

// completeSignIn binds the session to the connection and auto-subscribes the
// client to its principal's channel so pushes arrive without an explicit
// subscribe message
func (handler *WsHandler) completeSignIn(client *WsClient, auth *inbound.AuthResult) error {
	ctx := context.Background()

	client.BindSession(auth.Session)

	eventChan := handler.getEventChannel(client.id)
	if eventChan == nil {
		return shared.ErrClientEventChannelNotFound
	}

	if err := handler.broadcaster.Subscribe(ctx, auth.Session.PrincipalID, client.id, eventChan); err != nil {
		handler.logger.Error().Err(err).Str("client_id", client.id).Msg("Failed to subscribe client after sign-in")
	}

	response := NewServerMessage(MessageTypeSessionUpdate)
	response.Data["status"] = "signed_in"
	response.Data["principal_id"] = auth.Principal.ID
	response.Data["session_id"] = auth.Session.ID
	response.Data["access_token"] = auth.AccessToken
	response.Data["refresh_token"] = auth.RefreshToken
	response.Data["expires_in"] = auth.ExpiresIn

	handler.logger.Info().Str("client_id", client.id).Str("principal_id", auth.Principal.ID.String()).Msg("Client signed in")
	return client.Send(response)
}

func (handler *WsHandler) handleCreateListing(client *WsClient, msg *ClientMessage) error {
	ctx := context.Background()

	req := inbound.CreateListingRequest{
		Title:       stringField(msg.Data, "title"),
		Description: stringField(msg.Data, "description"),
		Price:       floatField(msg.Data, "price"),
		Category:    stringField(msg.Data, "category"),
		ImageURL:    stringField(msg.Data, "image_url"),
	}

	l, err := handler.listingService.Create(ctx, client.Session(), req)
	if err != nil {
		return client.Send(NewErrorMessage(err.Error(), nil))
	}

	handler.logger.Info().Str("client_id", client.id).Str("listing_id", l.ID.String()).Msg("Listing created over WebSocket")
	return client.Send(NewListingMessage(l, MessageTypeListingUpdate))
}

func (handler *WsHandler) handleGetListing(client *WsClient, msg *ClientMessage) error {
	ctx := context.Background()

	l, err := handler.listingService.Get(ctx, *msg.ListingID)
	if err != nil {
		return client.Send(NewErrorMessage(err.Error(), msg.ListingID))
	}

	return client.Send(NewListingMessage(l, MessageTypeListingUpdate))
}

func (handler *WsHandler) handleListListings(client *WsClient, msg *ClientMessage) error {
	ctx := context.Background()

	req := inbound.ListActiveRequest{}
	if sess := client.Session(); sess.Valid() {
		// Browsing excludes the caller's own listings
		ownerID := sess.PrincipalID
		req.ExcludeOwnerID = &ownerID
	}
	if category := stringField(msg.Data, "category"); category != "" {
		req.Category = &category
	}
	if ascending, ok := msg.Data["ascending"].(bool); ok {
		req.Ascending = ascending
	}
	if limit, ok := msg.Data["limit"].(float64); ok {
		req.Limit = int(limit)
	}

	listings, err := handler.listingService.ListActive(ctx, req)
	if err != nil {
		return client.Send(NewErrorMessage(err.Error(), nil))
	}

	response := NewServerMessage(MessageTypeListingUpdate)
	response.Data["listings"] = listings
	response.Data["count"] = len(listings)
	return client.Send(response)
}

func (handler *WsHandler) handleListMine(client *WsClient, msg *ClientMessage) error {
	ctx := context.Background()

	status := listing.Status(stringField(msg.Data, "status"))
	listings, err := handler.listingService.ListMine(ctx, client.Session(), status)
	if err != nil {
		return client.Send(NewErrorMessage(err.Error(), nil))
	}

	response := NewServerMessage(MessageTypeListingUpdate)
	response.Data["listings"] = listings
	response.Data["count"] = len(listings)
	return client.Send(response)
}

func (handler *WsHandler) handleMarkSold(client *WsClient, msg *ClientMessage) error {
	ctx := context.Background()

	l, err := handler.listingService.MarkSold(ctx, client.Session(), *msg.ListingID)
	if err != nil {
		return client.Send(NewErrorMessage(err.Error(), msg.ListingID))
	}

	handler.logger.Info().Str("client_id", client.id).Str("listing_id", l.ID.String()).Msg("Listing marked sold over WebSocket")
	return client.Send(NewListingMessage(l, MessageTypeListingUpdate))
}

func (handler *WsHandler) handleDeleteListing(client *WsClient, msg *ClientMessage) error {
	ctx := context.Background()

	if err := handler.listingService.Delete(ctx, client.Session(), *msg.ListingID); err != nil {
		return client.Send(NewErrorMessage(err.Error(), msg.ListingID))
	}

	response := NewServerMessage(MessageTypeListingUpdate)
	response.ListingID = msg.ListingID
	response.Data["status"] = "deleted"
	return client.Send(response)
}

func (handler *WsHandler) handleSubmitOffer(client *WsClient, msg *ClientMessage) error {
	ctx := context.Background()

	req := inbound.SubmitOfferRequest{
		ListingID: *msg.ListingID,
		Amount:    floatField(msg.Data, "amount"),
		Note:      stringField(msg.Data, "note"),
	}

	o, err := handler.offerService.Submit(ctx, client.Session(), req)
	if err != nil {
		return client.Send(NewErrorMessage(err.Error(), msg.ListingID))
	}

	handler.logger.Info().Str("client_id", client.id).Str("offer_id", o.ID.String()).Float64("amount", o.Amount).Msg("Offer submitted over WebSocket")
	return client.Send(NewOfferMessage(o, MessageTypeOfferUpdate))
}

func (handler *WsHandler) handleListOffers(client *WsClient, msg *ClientMessage) error {
	ctx := context.Background()

	offers, err := handler.offerService.ListForSeller(ctx, client.Session())
	if err != nil {
		return client.Send(NewErrorMessage(err.Error(), nil))
	}

	response := NewServerMessage(MessageTypeOfferUpdate)
	response.Data["offers"] = offers
	response.Data["count"] = len(offers)
	return client.Send(response)
}

func (handler *WsHandler) handleListMyOffers(client *WsClient, msg *ClientMessage) error {
	ctx := context.Background()

	offers, err := handler.offerService.ListForBuyer(ctx, client.Session())
	if err != nil {
		return client.Send(NewErrorMessage(err.Error(), nil))
	}

	response := NewServerMessage(MessageTypeOfferUpdate)
	response.Data["offers"] = offers
	response.Data["count"] = len(offers)
	return client.Send(response)
}

func (handler *WsHandler) handleRespondOffer(client *WsClient, msg *ClientMessage) error {
	ctx := context.Background()

	req := inbound.RespondOfferRequest{
		OfferID:  *msg.OfferID,
		Decision: offer.Decision(stringField(msg.Data, "decision")),
	}
	if counter, ok := msg.Data["counter_amount"].(float64); ok {
		req.CounterAmount = &counter
	}

	o, err := handler.offerService.Respond(ctx, client.Session(), req)
	if err != nil {
		return client.Send(NewErrorMessage(err.Error(), nil))
	}

	handler.logger.Info().Str("client_id", client.id).Str("offer_id", o.ID.String()).Str("status", string(o.Status)).Msg("Offer resolved over WebSocket")
	return client.Send(NewOfferMessage(o, MessageTypeOfferUpdate))
}

// handleSubscribe subscribes the signed-in client to its principal's channel
func (handler *WsHandler) handleSubscribe(client *WsClient, msg *ClientMessage) error {
	ctx := context.Background()

	sess := client.Session()
	if !sess.Valid() {
		return shared.ErrClientNotSignedIn
	}

	eventChan := handler.getEventChannel(client.id)
	if eventChan == nil {
		handler.logger.Error().Str("client_id", client.id).Msg("No event channel found for client")
		return shared.ErrClientEventChannelNotFound
	}

	if err := handler.broadcaster.Subscribe(ctx, sess.PrincipalID, client.id, eventChan); err != nil {
		handler.logger.Error().Err(err).Str("client_id", client.id).Str("principal_id", sess.PrincipalID.String()).Msg("Failed to subscribe client")
		return err
	}

	response := NewServerMessage(MessageTypeSessionUpdate)
	response.Data["status"] = "subscribed"

	handler.logger.Info().Str("client_id", client.id).Str("principal_id", sess.PrincipalID.String()).Msg("Client subscribed to principal channel")
	return client.Send(response)
}

// handleUnsubscribe drops the signed-in client's channel subscription
func (handler *WsHandler) handleUnsubscribe(client *WsClient, msg *ClientMessage) error {
	ctx := context.Background()

	sess := client.Session()
	if !sess.Valid() {
		return shared.ErrClientNotSignedIn
	}

	if err := handler.broadcaster.Unsubscribe(ctx, sess.PrincipalID, client.id); err != nil {
		return err
	}

	response := NewServerMessage(MessageTypeSessionUpdate)
	response.Data["status"] = "unsubscribed"

	handler.logger.Info().Str("client_id", client.id).Str("principal_id", sess.PrincipalID.String()).Msg("Client unsubscribed from principal channel")
	return client.Send(response)
}

func stringField(data map[string]interface{}, key string) string {
	if data == nil {
		return ""
	}
	if value, ok := data[key].(string); ok {
		return value
	}
	return ""
}

func floatField(data map[string]interface{}, key string) float64 {
	if data == nil {
		return 0
	}
	if value, ok := data[key].(float64); ok {
		return value
	}
	return 0
}
