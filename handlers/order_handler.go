package handlers

import (
	"net/http"
	"strconv"

	"github.com/The-Grit-Agencies/food-court-g4/middleware"
	"github.com/The-Grit-Agencies/food-court-g4/services"
	"github.com/gin-gonic/gin"
)

const (
	ownerOrdersPath  = "/owner/orders"
	updateStatusPage = "owner/update_order.html"
)

type statusForm struct {
	Status string `form:"status"`
}

func OwnerOrdersHandler(c *gin.Context, orders *services.OrderService) {
	restaurant, list, err := orders.ListOrders(c.Request.Context(), middleware.CurrentActor(c))
	if err != nil {
		handleError(c, err, "/")
		return
	}

	render(c, http.StatusOK, "owner/orders.html", gin.H{
		"Restaurant": restaurant,
		"Orders":     list,
	})
}

func UpdateOrderPageHandler(c *gin.Context, orders *services.OrderService) {
	orderID, ok := paramID(c, "id")
	if !ok {
		return
	}

	order, err := orders.GetOrder(c.Request.Context(), middleware.CurrentActor(c), orderID)
	if err != nil {
		handleError(c, err, ownerOrdersPath)
		return
	}

	renderForm(c, http.StatusOK, updateStatusPage, statusForm{Status: order.Status}, nil, gin.H{
		"Order": order,
	})
}

func UpdateOrderHandler(c *gin.Context, orders *services.OrderService) {
	orderID, ok := paramID(c, "id")
	if !ok {
		return
	}

	actor := middleware.CurrentActor(c)
	form := statusForm{Status: c.PostForm("status")}
	_, err := orders.UpdateStatus(c.Request.Context(), actor, orderID, form.Status)
	if err != nil {
		if status, ok := formFailed(err); ok {
			order, getErr := orders.GetOrder(c.Request.Context(), actor, orderID)
			if getErr != nil {
				handleError(c, getErr, ownerOrdersPath)
				return
			}
			renderForm(c, status, updateStatusPage, form, err, gin.H{"Order": order})
			return
		}
		handleError(c, err, ownerOrdersPath+"/"+strconv.FormatUint(uint64(orderID), 10)+"/update")
		return
	}

	redirectWith(c, ownerOrdersPath, "success", "Order status updated!")
}

func SalesReportHandler(c *gin.Context, orders *services.OrderService) {
	report, err := orders.SalesReport(c.Request.Context(), middleware.CurrentActor(c))
	if err != nil {
		handleError(c, err, "/")
		return
	}

	render(c, http.StatusOK, "owner/reports.html", gin.H{
		"Report": report,
	})
}

func AnalyticsHandler(c *gin.Context, orders *services.OrderService) {
	analytics, err := orders.Analytics(c.Request.Context(), middleware.CurrentActor(c))
	if err != nil {
		handleError(c, err, "/")
		return
	}

	render(c, http.StatusOK, "owner/analytics.html", gin.H{
		"Analytics": analytics,
	})
}
