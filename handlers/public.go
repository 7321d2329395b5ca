package handlers

import (
	"fmt"
	"net/http"

	"gas-delivery-api/config"
	"gas-delivery-api/models"
	"gas-delivery-api/statemachine"

	"github.com/gin-gonic/gin"
)

// GetSafetyTips returns the 5 newest safety tips
func GetSafetyTips(c *gin.Context) {
	var tips []models.SafetyTip
	config.DB.Order("created_at desc").Limit(5).Find(&tips)
	c.JSON(http.StatusOK, gin.H{"count": len(tips), "tips": tips})
}

// GetCylinderCatalog returns the orderable cylinder sizes and prices
func GetCylinderCatalog(c *gin.Context) {
	type entry struct {
		Size  int     `json:"size"`
		Label string  `json:"label"`
		Price float64 `json:"price"`
	}
	catalog := []entry{}
	for _, size := range []int{6, 13, 25, 50} {
		catalog = append(catalog, entry{
			Size:  size,
			Label: fmt.Sprintf("%d kg", size),
			Price: models.CylinderPrices[size],
		})
	}
	c.JSON(http.StatusOK, gin.H{"cylinders": catalog})
}

// GetStateMachineInfo documents the order lifecycle for API consumers
func GetStateMachineInfo(c *gin.Context) {
	transitions := statemachine.GetAllTransitions()
	type transitionDoc struct {
		From  models.OrderStatus `json:"from"`
		To    models.OrderStatus `json:"to"`
		Actor string             `json:"actor"`
	}
	docs := make([]transitionDoc, 0, len(transitions))
	for _, t := range transitions {
		docs = append(docs, transitionDoc{From: t.From, To: t.To, Actor: t.Actor})
	}
	c.JSON(http.StatusOK, gin.H{
		"states": []models.OrderStatus{
			models.StatusPending, models.StatusAccepted, models.StatusPickedUp,
			models.StatusOnTheWay, models.StatusDelivered, models.StatusCancelled,
		},
		"transitions": docs,
	})
}
