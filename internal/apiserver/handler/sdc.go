package handler

import (
	"github.com/amoylab/sdctrack/internal/apiserver/middleware"
	"github.com/amoylab/sdctrack/internal/common/errorx"
	"github.com/amoylab/sdctrack/internal/entity"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/tidwall/gjson"
)

const (
	defaultWorkItemName = "Unnamed Task"
	defaultWorkItemTime = "00:00"
)

// canModifyEntry reports whether the caller may change entry and its work
// items: its creator always may, Level 2 and above may change any entry.
// It writes the error response when not.
func (h *Handler) canModifyEntry(c *gin.Context, entry entity.SdcTrackingEntry) bool {
	if !h.enforce {
		return true
	}
	caller, ok := middleware.Caller(c)
	if !ok {
		h.resp.Error(c, errorx.ErrUnauthorized)
		return false
	}
	if caller.ID != entry.CreatedBy && !caller.Role.AtLeast(entity.RoleLevel2) {
		h.resp.Error(c, errorx.ErrForbidden)
		return false
	}
	return true
}

// loadEntry fetches the tracking entry named by the :id parameter and
// writes a 404 when it is missing
func (h *Handler) loadEntry(c *gin.Context) (entity.SdcTrackingEntry, bool) {
	entry, found, err := h.cols.SdcEntries.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.resp.Error(c, err)
		return entry, false
	}
	if !found {
		h.resp.Error(c, errorx.ErrEntryNotFound)
		return entry, false
	}
	return entry, true
}

func (h *Handler) ListSdcEntries(c *gin.Context) {
	list, err := h.cols.SdcEntries.List(c.Request.Context())
	if err != nil {
		h.resp.Error(c, err)
		return
	}
	h.resp.OK(c, items(list))
}

func (h *Handler) GetSdcEntry(c *gin.Context) {
	entry, ok := h.loadEntry(c)
	if !ok {
		return
	}
	h.resp.OK(c, entry)
}

// CreateSdcEntry records a new visit. The caller, when known, becomes its creator.
func (h *Handler) CreateSdcEntry(c *gin.Context) {
	caller, ok := h.authorize(c, entity.RoleLevel2)
	if !ok {
		return
	}
	body, ok := h.readObject(c)
	if !ok {
		return
	}
	entry, err := h.cols.SdcEntries.New(body)
	if err != nil {
		h.fail(c, err, errorx.ErrEntryNotFound)
		return
	}
	if caller.ID != "" {
		entry.CreatedBy = caller.ID
	}
	created, err := h.cols.SdcEntries.Create(c.Request.Context(), entry)
	if err != nil {
		h.resp.Error(c, err)
		return
	}
	h.resp.OK(c, created)
}

// UpdateSdcEntry patches an entry. The creator cannot be reassigned.
func (h *Handler) UpdateSdcEntry(c *gin.Context) {
	body, ok := h.readObject(c)
	if !ok {
		return
	}
	entry, ok := h.loadEntry(c)
	if !ok || !h.canModifyEntry(c, entry) {
		return
	}
	patch, err := without(body, "createdBy")
	if err != nil {
		h.resp.Error(c, errorx.ErrInvalidBody.Wrap(err))
		return
	}
	updated, err := h.cols.SdcEntries.Patch(c.Request.Context(), entry.ID, patch)
	if err != nil {
		h.fail(c, err, errorx.ErrEntryNotFound)
		return
	}
	h.resp.OK(c, updated)
}

// DeleteSdcEntry removes an entry together with all of its work items
func (h *Handler) DeleteSdcEntry(c *gin.Context) {
	entry, ok := h.loadEntry(c)
	if !ok || !h.canModifyEntry(c, entry) {
		return
	}
	ctx := c.Request.Context()

	deleted, err := h.cols.SdcEntries.Delete(ctx, entry.ID)
	if err != nil {
		h.resp.Error(c, err)
		return
	}
	if !deleted {
		h.resp.Error(c, errorx.ErrEntryNotFound)
		return
	}

	children, err := h.cols.SdcWorkItems.Filter(ctx, func(i entity.SdcWorkPerformedItem) bool {
		return i.SdcTrackingEntryID == entry.ID
	})
	if err != nil {
		h.resp.Error(c, err)
		return
	}
	ids := make([]string, 0, len(children))
	for _, i := range children {
		ids = append(ids, i.ID)
	}
	n, err := h.cols.SdcWorkItems.DeleteMany(ctx, ids)
	if err != nil {
		h.resp.Error(c, err)
		return
	}

	h.resp.OK(c, gin.H{"id": entry.ID, "deleted": true, "workItemsDeleted": n})
}

// ListWorkItems returns the work items of one entry as a bare array. An
// unknown entry has no items.
func (h *Handler) ListWorkItems(c *gin.Context) {
	entryID := c.Param("id")
	list, err := h.cols.SdcWorkItems.Filter(c.Request.Context(), func(i entity.SdcWorkPerformedItem) bool {
		return i.SdcTrackingEntryID == entryID
	})
	if err != nil {
		h.resp.Error(c, err)
		return
	}
	if list == nil {
		list = []entity.SdcWorkPerformedItem{}
	}
	h.resp.OK(c, list)
}

// CreateWorkItem adds a work item to an existing entry. Missing or empty
// fields fall back to defaults. Time order is checked after defaulting
// unless neither time was given.
func (h *Handler) CreateWorkItem(c *gin.Context) {
	body, ok := h.readObject(c)
	if !ok {
		return
	}
	entry, ok := h.loadEntry(c)
	if !ok || !h.canModifyEntry(c, entry) {
		return
	}

	rawStart := gjson.GetBytes(body, "startTime").String()
	rawEnd := gjson.GetBytes(body, "endTime").String()
	start := orDefault(rawStart, defaultWorkItemTime)
	end := orDefault(rawEnd, defaultWorkItemTime)
	// malformed times are left to field validation
	if (rawStart != "" || rawEnd != "") && entity.IsHHMM(start) && entity.IsHHMM(end) {
		if err := entity.CheckTimeOrder(start, end); err != nil {
			h.resp.Error(c, err)
			return
		}
	}

	item := entity.SdcWorkPerformedItem{
		ID:                 uuid.NewString(),
		SdcTrackingEntryID: entry.ID,
		Name:               orDefault(gjson.GetBytes(body, "name").String(), defaultWorkItemName),
		StartTime:          start,
		EndTime:            end,
		Notes:              gjson.GetBytes(body, "notes").String(),
	}
	created, err := h.cols.SdcWorkItems.Create(c.Request.Context(), item)
	if err != nil {
		h.resp.Error(c, err)
		return
	}
	h.resp.OK(c, created)
}

// DeleteWorkItem removes a work item that belongs to the given entry
func (h *Handler) DeleteWorkItem(c *gin.Context) {
	ctx := c.Request.Context()
	entryID, itemID := c.Param("id"), c.Param("itemId")

	item, found, err := h.cols.SdcWorkItems.Get(ctx, itemID)
	if err != nil {
		h.resp.Error(c, err)
		return
	}
	if !found || item.SdcTrackingEntryID != entryID {
		h.resp.Error(c, errorx.ErrWorkItemNotFound)
		return
	}

	entry, found, err := h.cols.SdcEntries.Get(ctx, entryID)
	if err != nil {
		h.resp.Error(c, err)
		return
	}
	if found {
		if !h.canModifyEntry(c, entry) {
			return
		}
	} else if _, ok := h.authorize(c, entity.RoleLevel2); !ok {
		// orphaned item: no creator to defer to
		return
	}

	deleted, err := h.cols.SdcWorkItems.Delete(ctx, itemID)
	if err != nil {
		h.resp.Error(c, err)
		return
	}
	if !deleted {
		h.resp.Error(c, errorx.ErrWorkItemNotFound)
		return
	}
	h.resp.OK(c, gin.H{"id": itemID, "deleted": true})
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
