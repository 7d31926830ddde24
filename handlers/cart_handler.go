package handlers

import (
	"net/http"

	"github.com/The-Grit-Agencies/food-court-g4/middleware"
	"github.com/The-Grit-Agencies/food-court-g4/services"
	"github.com/gin-gonic/gin"
)

const cartPath = "/user/cart"

// back returns to the page the cart action was posted from.
func back(c *gin.Context) string {
	return safeNext(c.PostForm("next"), "/")
}

func AddToCartHandler(c *gin.Context, cart *services.CartService) {
	menuItemID, ok := paramID(c, "id")
	if !ok {
		return
	}

	_, err := cart.AddLine(c.Request.Context(), middleware.CurrentActor(c), menuItemID, formQuantity(c))
	if err != nil {
		handleError(c, err, back(c))
		return
	}

	redirectWith(c, back(c), "success", "Item added to cart!")
}

func ViewCartHandler(c *gin.Context, cart *services.CartService) {
	view, err := cart.View(c.Request.Context(), middleware.CurrentActor(c))
	if err != nil {
		handleError(c, err, "/")
		return
	}

	render(c, http.StatusOK, "user/cart.html", gin.H{
		"Cart": view,
	})
}

func UpdateCartHandler(c *gin.Context, cart *services.CartService) {
	cartItemID, ok := paramID(c, "id")
	if !ok {
		return
	}

	err := cart.UpdateLine(c.Request.Context(), middleware.CurrentActor(c), cartItemID, formQuantity(c))
	if err != nil {
		handleError(c, err, cartPath)
		return
	}

	redirectWith(c, cartPath, "success", "Cart updated!")
}

func RemoveFromCartHandler(c *gin.Context, cart *services.CartService) {
	cartItemID, ok := paramID(c, "id")
	if !ok {
		return
	}

	err := cart.RemoveLine(c.Request.Context(), middleware.CurrentActor(c), cartItemID)
	if err != nil {
		handleError(c, err, cartPath)
		return
	}

	redirectWith(c, cartPath, "success", "Item removed from cart.")
}

func CheckoutPageHandler(c *gin.Context, cart *services.CartService) {
	view, err := cart.View(c.Request.Context(), middleware.CurrentActor(c))
	if err != nil {
		handleError(c, err, cartPath)
		return
	}

	render(c, http.StatusOK, "user/checkout.html", gin.H{
		"Cart": view,
	})
}

func CheckoutHandler(c *gin.Context, cart *services.CartService) {
	_, err := cart.Checkout(c.Request.Context(), middleware.CurrentActor(c))
	if err != nil {
		handleError(c, err, cartPath)
		return
	}

	redirectWith(c, "/user/order/success", "success", "Order placed successfully!")
}

func OrderSuccessHandler(c *gin.Context, cart *services.CartService) {
	order, err := cart.LatestOrder(c.Request.Context(), middleware.CurrentActor(c))
	if err != nil {
		handleError(c, err, "/")
		return
	}

	render(c, http.StatusOK, "user/order_success.html", gin.H{
		"Order": order,
	})
}

func OrderHistoryHandler(c *gin.Context, cart *services.CartService) {
	orders, err := cart.OrderHistory(c.Request.Context(), middleware.CurrentActor(c))
	if err != nil {
		handleError(c, err, "/")
		return
	}

	render(c, http.StatusOK, "user/order_history.html", gin.H{
		"Orders": orders,
	})
}
