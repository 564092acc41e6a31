/*
SPDX-License-Identifier: Apache-2.0

Copyright 2024 The Taxinomia Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    https://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package demo holds the sample users and products tables and an in-memory
// stand-in for their remote collection service.
package demo

import (
	"strings"
	"time"

	"github.com/google/tabula/core/columns"
	"github.com/google/tabula/core/tables"
)

// RemoteBaseURL is the public collection service the sample tables were
// written against.
const RemoteBaseURL = "https://mock-api.shpp.me/rspichak"

// UsersConfig is a read-and-delete table of users. now is the clock used for
// the age column; nil means time.Now.
func UsersConfig(baseURL string, now func() time.Time) *tables.Config {
	return &tables.Config{
		Name:   "users",
		Title:  "users",
		Parent: "#usersTable",
		APIURL: strings.TrimSuffix(baseURL, "/") + "/users",
		Columns: []columns.Column{
			{Title: "Ім’я", Value: columns.Field("name")},
			{Title: "Прізвище", Value: columns.Field("surname")},
			{Title: "Вік", Value: columns.AgeOf("birthday", now)},
			{Title: "Фото", Value: columns.Image("avatar", "name", "surname")},
		},
		AllowDelete: true,
	}
}

// ProductsConfig is a table of products with an add form.
func ProductsConfig(baseURL string) *tables.Config {
	return &tables.Config{
		Name:   "products",
		Title:  "products",
		Parent: "#productsTable",
		APIURL: strings.TrimSuffix(baseURL, "/") + "/products",
		Columns: []columns.Column{
			{
				Title:  "Назва",
				Value:  columns.Field("title"),
				Inputs: []columns.Input{{Type: columns.InputText}},
			},
			{
				Title: "Ціна",
				Value: columns.Joined(" ", "price", "currency"),
				Inputs: []columns.Input{
					{Type: columns.InputNumber, Name: "price", Label: "Ціна"},
					{Type: columns.InputSelect, Name: "currency", Label: "Валюта", Options: []string{"$", "€", "₴"}, Required: columns.Optional()},
				},
			},
			{
				Title:  "Колір",
				Value:  columns.ColorLabel("color"),
				Inputs: []columns.Input{{Type: columns.InputColor, Name: "color"}},
			},
		},
	}
}

// Configs returns both sample tables.
func Configs(baseURL string, now func() time.Time) []*tables.Config {
	return []*tables.Config{UsersConfig(baseURL, now), ProductsConfig(baseURL)}
}

// Seed fills api with a few users and products.
func Seed(api *MockAPI) {
	api.Seed("users",
		map[string]any{"name": "Олена", "surname": "Коваль", "birthday": "1990-04-12", "avatar": "https://i.pravatar.cc/64?img=1"},
		map[string]any{"name": "Тарас", "surname": "Шевчук", "birthday": "1985-11-30", "avatar": "https://i.pravatar.cc/64?img=3"},
		map[string]any{"name": "Ірина", "surname": "Бондар", "birthday": "2001-07-05", "avatar": "https://i.pravatar.cc/64?img=5"},
	)
	api.Seed("products",
		map[string]any{"title": "Чашка", "price": 120, "currency": "₴", "color": "#d94f4f"},
		map[string]any{"title": "Notebook", "price": 4.5, "currency": "$", "color": "#3b7dd8"},
		map[string]any{"title": "Lamp", "price": 39, "currency": "€", "color": "#f2c94c"},
	)
}
