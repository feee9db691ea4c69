package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/platefit/fulfillment/internal/handler/http/mocks"
	"github.com/platefit/fulfillment/internal/models"
)

func TestStageHandler_AdvanceStage(t *testing.T) {
	orderID := uuid.New()
	restaurantID := uuid.New()
	tests := []struct {
		name           string
		token          *models.TokenPayload
		body           string
		setup          func(t *testing.T) *mocks.MockStageService
		wantStatusCode int
	}{
		{
			name:  "valid_request_return_200",
			token: &models.TokenPayload{RestaurantID: restaurantID},
			body:  `{"stage":"cook"}`,
			setup: func(t *testing.T) *mocks.MockStageService {

				ctrl := gomock.NewController(t)
				defer ctrl.Finish()

				svcMock := mocks.NewMockStageService(ctrl)
				svcMock.EXPECT().AdvanceStage(gomock.Any(), orderID, "cook").Return(nil).AnyTimes()
				return svcMock
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name:  "empty_stage_return_400",
			token: &models.TokenPayload{RestaurantID: restaurantID},
			body:  `{}`,
			setup: func(t *testing.T) *mocks.MockStageService {

				ctrl := gomock.NewController(t)
				defer ctrl.Finish()

				svcMock := mocks.NewMockStageService(ctrl)
				svcMock.EXPECT().AdvanceStage(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
				return svcMock
			},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name: "unauthorized_request_return_401",
			body: `{"stage":"cook"}`,
			setup: func(t *testing.T) *mocks.MockStageService {

				ctrl := gomock.NewController(t)
				defer ctrl.Finish()

				svcMock := mocks.NewMockStageService(ctrl)
				svcMock.EXPECT().AdvanceStage(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
				return svcMock
			},
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:  "unknown_stage_return_404",
			token: &models.TokenPayload{RestaurantID: restaurantID},
			body:  `{"stage":"garnish"}`,
			setup: func(t *testing.T) *mocks.MockStageService {

				ctrl := gomock.NewController(t)
				defer ctrl.Finish()

				svcMock := mocks.NewMockStageService(ctrl)
				svcMock.EXPECT().AdvanceStage(gomock.Any(), gomock.Any(), gomock.Any()).Return(models.ErrStageNotFound).AnyTimes()
				return svcMock
			},
			wantStatusCode: http.StatusNotFound,
		},
		{
			name:  "out_of_order_return_409",
			token: &models.TokenPayload{RestaurantID: restaurantID},
			body:  `{"stage":"package"}`,
			setup: func(t *testing.T) *mocks.MockStageService {

				ctrl := gomock.NewController(t)
				defer ctrl.Finish()

				svcMock := mocks.NewMockStageService(ctrl)
				svcMock.EXPECT().AdvanceStage(gomock.Any(), gomock.Any(), gomock.Any()).Return(models.ErrStageOrder).AnyTimes()
				return svcMock
			},
			wantStatusCode: http.StatusConflict,
		},
		{
			name:  "stage_not_in_progress_return_409",
			token: &models.TokenPayload{RestaurantID: restaurantID},
			body:  `{"stage":"prep"}`,
			setup: func(t *testing.T) *mocks.MockStageService {

				ctrl := gomock.NewController(t)
				defer ctrl.Finish()

				svcMock := mocks.NewMockStageService(ctrl)
				svcMock.EXPECT().AdvanceStage(gomock.Any(), gomock.Any(), gomock.Any()).Return(models.ErrStageNotInProgress).AnyTimes()
				return svcMock
			},
			wantStatusCode: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := http.NewRequest(http.MethodPost, "/api/orders/"+orderID.String()+"/stages/advance", strings.NewReader(tt.body))
			if err != nil {
				t.Fatal("cannot create request", zap.Error(err))
			}
			req = withURLParam(req, "orderID", orderID.String())

			w := httptest.NewRecorder()
			st := tt.setup(t)
			ctx := req.Context()
			if tt.token != nil {
				ctx = context.WithValue(ctx, authPayloadKey, tt.token)
			}

			handler := NewStageHandler(st)
			h := handler.AdvanceStage()
			h(w, req.WithContext(ctx))

			res := w.Result()
			assert.Equal(t, tt.wantStatusCode, res.StatusCode)
			defer res.Body.Close()
		})
	}
}

func TestStageHandler_ListStages(t *testing.T) {
	orderID := uuid.New()
	tests := []struct {
		name           string
		orderID        string
		setup          func(t *testing.T) *mocks.MockStageService
		wantStatusCode int
	}{
		{
			name:    "valid_request_return_200",
			orderID: orderID.String(),
			setup: func(t *testing.T) *mocks.MockStageService {

				ctrl := gomock.NewController(t)
				defer ctrl.Finish()

				svcMock := mocks.NewMockStageService(ctrl)
				svcMock.EXPECT().GetStages(gomock.Any(), orderID).Return([]models.PreparationStage{
					{
						ID:                       uuid.New(),
						OrderID:                  orderID,
						StageName:                "prep",
						StageOrder:               1,
						Status:                   models.StageStatusInProgress,
						EstimatedDurationMinutes: 10,
					},
				}, nil).AnyTimes()
				return svcMock
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name:    "invalid_id_return_400",
			orderID: "garbage",
			setup: func(t *testing.T) *mocks.MockStageService {

				ctrl := gomock.NewController(t)
				defer ctrl.Finish()

				svcMock := mocks.NewMockStageService(ctrl)
				svcMock.EXPECT().GetStages(gomock.Any(), gomock.Any()).Times(0)
				return svcMock
			},
			wantStatusCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := http.NewRequest(http.MethodGet, "/api/orders/"+tt.orderID+"/stages", nil)
			if err != nil {
				t.Fatal("cannot create request", zap.Error(err))
			}
			req = withURLParam(req, "orderID", tt.orderID)

			w := httptest.NewRecorder()
			st := tt.setup(t)

			handler := NewStageHandler(st)
			h := handler.ListStages()
			h(w, req)

			res := w.Result()
			assert.Equal(t, tt.wantStatusCode, res.StatusCode)
			defer res.Body.Close()
		})
	}
}
