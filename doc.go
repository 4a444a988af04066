// Package staticmap renders static map images: XYZ raster tiles fetched for a
// viewport, with polylines, polygons and circles drawn on top.
//
//	m, err := staticmap.New(staticmap.MapConfig{Width: 600, Height: 400})
//	if err != nil {
//		return err
//	}
//	_ = m.AddPolyline(staticmap.PolylineOptions{
//		Coordinates: [][]float64{{-74.02, 40.70}, {-73.97, 40.75}},
//		StrokeColor: "#ff0000",
//	})
//	err = m.Render(ctx, "map.png", staticmap.WithConcurrency(4))
//
// Without an explicit zoom the highest zoom at which every feature fits the
// canvas, minus padding, is used; without a center the middle of the
// features' extent is.
package staticmap
