// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package ontology

// SampleSQL is an e-commerce schema used for demos and as a validator fixture.
const SampleSQL = `CREATE TABLE users (
  id INT PRIMARY KEY AUTO_INCREMENT,
  email VARCHAR(255) UNIQUE NOT NULL,
  password_hash VARCHAR(255) NOT NULL,
  first_name VARCHAR(100) NOT NULL,
  last_name VARCHAR(100) NOT NULL,
  created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
  updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
);

CREATE TABLE categories (
  id INT PRIMARY KEY AUTO_INCREMENT,
  name VARCHAR(100) NOT NULL,
  parent_id INT,
  description TEXT,
  created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
  FOREIGN KEY (parent_id) REFERENCES categories(id)
);

CREATE TABLE products (
  id INT PRIMARY KEY AUTO_INCREMENT,
  category_id INT NOT NULL,
  name VARCHAR(255) NOT NULL,
  description TEXT,
  price DECIMAL(10,2) NOT NULL,
  stock_quantity INT DEFAULT 0,
  created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
  updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
  FOREIGN KEY (category_id) REFERENCES categories(id)
);

CREATE TABLE orders (
  id INT PRIMARY KEY AUTO_INCREMENT,
  user_id INT NOT NULL,
  total_amount DECIMAL(10,2) NOT NULL,
  status ENUM('pending', 'processing', 'shipped', 'delivered', 'cancelled') DEFAULT 'pending',
  created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
  updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
  FOREIGN KEY (user_id) REFERENCES users(id)
);

CREATE TABLE order_items (
  id INT PRIMARY KEY AUTO_INCREMENT,
  order_id INT NOT NULL,
  product_id INT NOT NULL,
  quantity INT NOT NULL,
  unit_price DECIMAL(10,2) NOT NULL,
  total_price DECIMAL(10,2) NOT NULL,
  FOREIGN KEY (order_id) REFERENCES orders(id),
  FOREIGN KEY (product_id) REFERENCES products(id)
);`

// SampleOntology returns the ontology the harmonizer builds for a trimmed
// version of SampleSQL.
func SampleOntology() Ontology {
	return Ontology{
		Name: "E-commerce Platform Ontology",
		Description: "Core entities and relations of an e-commerce platform: user management, " +
			"product catalog, order processing, payment and shipping, and customer interaction.",
		Domain: "E-commerce / Online Retail",
		EntityTypes: []EntityType{
			{
				Name:        "User",
				DisplayName: "User",
				Description: "A customer or administrator of the platform",
				Properties: []Property{
					{Name: "user_id", Type: "integer", Description: "Unique user identifier", Required: true},
					{Name: "email", Type: "string", Description: "Email address (unique)", Required: true},
					{Name: "password_hash", Type: "string", Description: "Password hash", Required: true},
					{Name: "first_name", Type: "string", Description: "First name", Required: true},
					{Name: "last_name", Type: "string", Description: "Last name", Required: true},
				},
			},
			{
				Name:        "Product",
				DisplayName: "Product",
				Description: "An item offered for sale",
				Properties: []Property{
					{Name: "product_id", Type: "integer", Description: "Unique product identifier", Required: true},
					{Name: "product_name", Type: "string", Description: "Product name", Required: true},
					{Name: "price", Type: "float", Description: "Sale price", Required: true},
				},
			},
		},
		RelationTypes: []RelationType{
			{
				Name:              "purchases",
				DisplayName:       "Purchases",
				Description:       "A user buys a product",
				SourceEntityTypes: []string{"User"},
				TargetEntityTypes: []string{"Product"},
				Cardinality:       "many-to-many",
			},
		},
		CompletenessScore: 0.9,
	}
}
