package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	models "FarmYield/internal/domain/models"
	xhttp "FarmYield/pkg/http"
	xlogger "FarmYield/pkg/logger"

	"github.com/ethereum/go-ethereum/common"
	"github.com/labstack/echo/v4"
)

// FarmEvaluator is the use case behind GET /.
type FarmEvaluator interface {
	EvaluateFarm(ctx context.Context, farm common.Address, selected []int) (*models.FarmResult, error)
}

// FarmEchoHandler serves the APR of the configured farm.
type FarmEchoHandler struct {
	logger  *xlogger.Logger
	eval    FarmEvaluator
	farm    common.Address
	pools   []int
	timeout time.Duration
}

func NewFarmEchoHandler(logger *xlogger.Logger, eval FarmEvaluator, farm common.Address, pools []int, timeout time.Duration) *FarmEchoHandler {
	return &FarmEchoHandler{logger: logger, eval: eval, farm: farm, pools: pools, timeout: timeout}
}

func (h *FarmEchoHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/", h.Farm)
	e.GET("/health", h.Health)
}

func (h *FarmEchoHandler) Farm(c echo.Context) error {
	req := &models.FarmRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	pools := h.pools
	if req.Pools != "" {
		parsed, err := xhttp.ParseIntList(req.Pools)
		if err != nil {
			return xhttp.BadRequestResponse(c, []xhttp.ValidationError{{
				Code:    "ERR_POOLS",
				Field:   "pools",
				Message: err.Error(),
			}})
		}
		pools = parsed
	}

	ctx := c.Request().Context()
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	res, err := h.eval.EvaluateFarm(ctx, h.farm, pools)
	if err != nil {
		h.logger.Error("farm evaluation failed", xlogger.Address("farm", h.farm), xlogger.Error(err))
		return xhttp.AppErrorResponse(c, toAppError(err))
	}
	c.Response().Header().Set(echo.HeaderCacheControl, "public, max-age=30")
	return c.JSON(http.StatusOK, res)
}

func (h *FarmEchoHandler) Health(c echo.Context) error {
	return xhttp.SuccessResponse(c, models.HealthResponse{Status: "ok", Farm: h.farm.Hex()})
}

func toAppError(err error) error {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return xhttp.GatewayTimeoutError("farm evaluation timed out").WithError(err)
	case errors.Is(err, models.ErrChainUnavailable):
		return xhttp.ServiceUnavailableError("ERR_CHAIN_UNAVAILABLE", "chain unavailable").WithError(err)
	case errors.Is(err, models.ErrPriceUnavailable):
		return xhttp.BadGatewayError("ERR_PRICE_UNAVAILABLE", "price oracle unavailable").WithError(err)
	default:
		return xhttp.InternalError("farm evaluation failed").WithError(err)
	}
}
