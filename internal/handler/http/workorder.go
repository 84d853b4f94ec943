package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/agrilabor/fieldpay-backend/internal/domain/workorder"
	"github.com/agrilabor/fieldpay-backend/internal/handler/http/response"
	"github.com/agrilabor/fieldpay-backend/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
)

type WorkOrderHandler interface {
	// Orders
	Create(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)

	// Contributions
	AddContribution(w http.ResponseWriter, r *http.Request)
	RemoveContribution(w http.ResponseWriter, r *http.Request)

	// Items
	AddItem(w http.ResponseWriter, r *http.Request)
	RemoveItem(w http.ResponseWriter, r *http.Request)

	// Lifecycle
	Transition(w http.ResponseWriter, r *http.Request)
	ListEvents(w http.ResponseWriter, r *http.Request)
}

type workOrderHandlerImpl struct {
	workOrderService workorder.WorkOrderService
}

func NewWorkOrderHandler(workOrderService workorder.WorkOrderService) WorkOrderHandler {
	return &workOrderHandlerImpl{workOrderService: workOrderService}
}

// ========== ORDERS ==========

func (h *workOrderHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req workorder.CreateWorkOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.workOrderService.Create(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Work order created", result)
}

func (h *workOrderHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !validator.IsValidUUID(id) {
		response.BadRequest(w, "Work order ID must be a valid UUID", nil)
		return
	}

	result, err := h.workOrderService.Get(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *workOrderHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter := workorder.WorkOrderFilter{
		Page:      1,
		Limit:     20,
		SortBy:    "created_at",
		SortOrder: "desc",
	}

	if pageStr := r.URL.Query().Get("page"); pageStr != "" {
		if page, err := strconv.Atoi(pageStr); err == nil && page > 0 {
			filter.Page = page
		}
	}
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil && limit > 0 {
			filter.Limit = limit
		}
	}
	if status := r.URL.Query().Get("status"); status != "" {
		filter.Status = &status
	}
	if month := r.URL.Query().Get("month"); month != "" {
		filter.Month = &month
	}
	if sortBy := r.URL.Query().Get("sort_by"); sortBy != "" {
		filter.SortBy = sortBy
	}
	if sortOrder := r.URL.Query().Get("sort_order"); sortOrder != "" {
		filter.SortOrder = sortOrder
	}

	result, err := h.workOrderService.List(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ========== CONTRIBUTIONS ==========

func (h *workOrderHandlerImpl) AddContribution(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Work order ID is required", nil)
		return
	}

	var req workorder.AddContributionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.WorkOrderID = id

	result, err := h.workOrderService.AddContribution(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Worker contribution added", result)
}

func (h *workOrderHandlerImpl) RemoveContribution(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	contributionID := chi.URLParam(r, "contributionId")
	if id == "" || contributionID == "" {
		response.BadRequest(w, "Work order ID and contribution ID are required", nil)
		return
	}

	if err := h.workOrderService.RemoveContribution(r.Context(), id, contributionID); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Worker contribution removed", nil)
}

// ========== ITEMS ==========

func (h *workOrderHandlerImpl) AddItem(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Work order ID is required", nil)
		return
	}

	var req workorder.AddItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.WorkOrderID = id

	result, err := h.workOrderService.AddItem(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Order item added", result)
}

func (h *workOrderHandlerImpl) RemoveItem(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	itemID := chi.URLParam(r, "itemId")
	if id == "" || itemID == "" {
		response.BadRequest(w, "Work order ID and item ID are required", nil)
		return
	}

	if err := h.workOrderService.RemoveItem(r.Context(), id, itemID); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Order item removed", nil)
}

// ========== LIFECYCLE ==========

func (h *workOrderHandlerImpl) Transition(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !validator.IsValidUUID(id) {
		response.BadRequest(w, "Work order ID must be a valid UUID", nil)
		return
	}

	var req workorder.TransitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.WorkOrderID = id

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}
	event, _ := workorder.ParseEvent(req.Event)

	result, err := h.workOrderService.AttemptTransition(r.Context(), id, event)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *workOrderHandlerImpl) ListEvents(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Work order ID is required", nil)
		return
	}

	result, err := h.workOrderService.ListEvents(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
