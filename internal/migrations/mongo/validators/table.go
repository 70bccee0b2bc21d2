package validators

import "go.mongodb.org/mongo-driver/bson"

var TableValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"restaurant_id",
			"table_number",
			"capacity",
			"status",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"restaurant_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"table_number": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 20,
			},

			"capacity": bson.M{
				"bsonType": "int",
				"minimum":  1,
				"maximum":  50,
			},

			"location": bson.M{
				"bsonType":  "string",
				"maxLength": 100,
			},

			"status": bson.M{
				"bsonType": "string",
				"enum": []string{
					"AVAILABLE",
					"MAINTENANCE",
				},
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
