package handlers

import (
	"voltedge_site_go/services"

	"github.com/labstack/echo/v4"
)

// Products

func ListProductsHandler(c echo.Context) error  { return listRecords(c, services.ListProducts) }
func GetProductHandler(c echo.Context) error    { return getRecord(c, services.GetProduct) }
func CreateProductHandler(c echo.Context) error { return createRecord(c, services.CreateProduct) }
func UpdateProductHandler(c echo.Context) error { return updateRecord(c, services.UpdateProduct) }
func DeleteProductHandler(c echo.Context) error { return deleteRecord(c, services.DeleteProduct) }

// Services

func ListServicesHandler(c echo.Context) error  { return listRecords(c, services.ListServices) }
func GetServiceHandler(c echo.Context) error    { return getRecord(c, services.GetService) }
func CreateServiceHandler(c echo.Context) error { return createRecord(c, services.CreateService) }
func UpdateServiceHandler(c echo.Context) error { return updateRecord(c, services.UpdateService) }
func DeleteServiceHandler(c echo.Context) error { return deleteRecord(c, services.DeleteService) }

// Clients

func ListClientsHandler(c echo.Context) error  { return listRecords(c, services.ListClients) }
func GetClientHandler(c echo.Context) error    { return getRecord(c, services.GetClient) }
func CreateClientHandler(c echo.Context) error { return createRecord(c, services.CreateClient) }
func UpdateClientHandler(c echo.Context) error { return updateRecord(c, services.UpdateClient) }
func DeleteClientHandler(c echo.Context) error { return deleteRecord(c, services.DeleteClient) }

// Gallery

func ListGalleryHandler(c echo.Context) error { return listRecords(c, services.ListGalleryImages) }
func GetGalleryImageHandler(c echo.Context) error {
	return getRecord(c, services.GetGalleryImage)
}
func CreateGalleryImageHandler(c echo.Context) error {
	return createRecord(c, services.CreateGalleryImage)
}
func UpdateGalleryImageHandler(c echo.Context) error {
	return updateRecord(c, services.UpdateGalleryImage)
}
func DeleteGalleryImageHandler(c echo.Context) error {
	return deleteRecord(c, services.DeleteGalleryImage)
}
